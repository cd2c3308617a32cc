package fileutils

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/pterm/pterm"
)

var downloadClient = &http.Client{Timeout: 10 * time.Minute}

type progressWriter struct {
	bar *pterm.ProgressbarPrinter
}

func (w *progressWriter) Write(p []byte) (int, error) {
	if w.bar != nil {
		w.bar.Add(len(p))
	}
	return len(p), nil
}

// DownloadFile streams url into path, rendering a progress bar when the
// server reports a length.
func DownloadFile(url string, path string) error {
	pterm.Info.Println("Downloading " + url)

	resp, err := downloadClient.Get(url)
	if err != nil {
		return fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: HTTP %d", url, resp.StatusCode)
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	counter := &progressWriter{}
	if resp.ContentLength > 0 {
		counter.bar, _ = pterm.DefaultProgressbar.
			WithTotal(int(resp.ContentLength)).
			WithTitle(filepath.Base(path)).
			Start()
	}
	_, err = io.Copy(file, io.TeeReader(resp.Body, counter))
	if counter.bar != nil {
		counter.bar.Stop()
	}
	if err != nil {
		return fmt.Errorf("download %s: %w", url, err)
	}
	return nil
}
