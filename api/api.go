package api

import (
	"errors"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrNoLocator is returned when a version resolves to no downloadable artifact.
var ErrNoLocator = errors.New("no artifact locator for version")

// Channel identifies one upstream server distribution.
type Channel string

const (
	Vanilla  Channel = "vanilla"
	Forge    Channel = "forge"
	Fabric   Channel = "fabric"
	NeoForge Channel = "neoforge"
)

// VersionDescriptor is one installable build from one channel. Label is what
// the menus show, Locator is whatever the adapter needs to resolve a download
// later (a detail URL, an installer URL, or empty when resolution is remote).
type VersionDescriptor struct {
	ID      string
	Channel Channel
	Label   string
	Locator string
}

// Catalog is the uniform capability of one channel's version source.
// ListVersions never fails: remote or parse trouble degrades to an empty
// list with a diagnostic, so one dead source can't take down the menu.
type Catalog interface {
	Channel() Channel
	ListVersions(gameVersion string) []VersionDescriptor
	ResolveLocator(id string) (string, error)
}

// Client wraps the shared resty client. Construct one in main and pass it
// down; adapters never reach for ambient globals.
type Client struct {
	http *resty.Client
}

func NewClient() *Client {
	return &Client{
		http: resty.New().
			SetTimeout(15 * time.Second).
			SetHeader("User-Agent", "mcsm/1.2"),
	}
}

func (c *Client) R() *resty.Request {
	return c.http.R()
}

func fetchProblem(resp *resty.Response, err error) string {
	if err != nil {
		return err.Error()
	}
	return "HTTP " + resp.Status()
}

// Catalogs builds the channel -> adapter table used by the install flow.
func Catalogs(c *Client) map[Channel]Catalog {
	return map[Channel]Catalog{
		Vanilla:  NewMojangCatalog(c),
		Forge:    NewForgeCatalog(c),
		Fabric:   NewFabricCatalog(c),
		NeoForge: NewNeoForgeCatalog(c),
	}
}
