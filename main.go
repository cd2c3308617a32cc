package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/text"
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"
	"golang.org/x/mod/semver"

	"github.com/happydiy/mcsm/api"
	"github.com/happydiy/mcsm/console"
	"github.com/happydiy/mcsm/java"
	"github.com/happydiy/mcsm/services"
	"github.com/happydiy/mcsm/tasks"
	"github.com/happydiy/mcsm/util"
	"github.com/happydiy/mcsm/util/fileutils"
)

type manager struct {
	catalogs map[api.Channel]api.Catalog
	pool     *tasks.Pool
	root     string
}

func newManager() *manager {
	return &manager{
		catalogs: api.Catalogs(api.NewClient()),
		pool:     tasks.NewPool(tasks.DefaultWorkers),
		root:     fileutils.ServerRoot(),
	}
}

func main() {
	m := newManager()
	app := &cli.App{
		Name:   "mcsm",
		Usage:  "Install and run Minecraft servers with ease",
		Action: m.run,
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Set the directory servers are installed under",
				Action: func(c *cli.Context) error {
					dir := c.Args().Get(0)
					if dir == "" {
						return fmt.Errorf("usage: mcsm init <dir>")
					}
					if err := fileutils.SetServerRoot(dir); err != nil {
						return err
					}
					pterm.Success.Println("Servers will be installed under " + dir)
					return nil
				},
			},
			{
				Name:    "ls",
				Aliases: []string{"list"},
				Usage:   "List installed servers",
				Action:  m.listServers,
			},
			{
				Name:   "java",
				Usage:  "List Java installations found on this system",
				Action: m.listJava,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// run is the default interactive flow: pick or install a server, then hand
// it to the supervisor.
func (m *manager) run(*cli.Context) error {
	defer m.pool.Shutdown()
	pterm.DefaultHeader.Println("Minecraft Server Manager")

	// Java discovery runs in the background while the operator is busy
	// with the menus.
	javaFuture := tasks.Submit(m.pool, func() ([]java.Installation, error) {
		return java.Discover(m.pool, java.DefaultSearchRoots()), nil
	})

	installed := services.ListInstalled(m.root)

	var toStart *services.Instance
	var javaPath string

	installNew := len(installed) == 0
	if !installNew {
		idx, ok := util.Menu("Choose an action", []string{"Start an installed server", "Install a new server"})
		if !ok {
			return nil
		}
		installNew = idx == 1
	}

	if installNew {
		inst, jp, err := m.installNew(javaFuture)
		if err != nil {
			return err
		}
		if inst == nil {
			pterm.Info.Println("Install cancelled.")
			return nil
		}
		if start, ok := util.Confirm("Install finished. Start the server now?"); ok && start {
			toStart, javaPath = inst, jp
		} else if ok {
			pterm.Info.Println("Run mcsm again later to start it.")
		}
	} else {
		idx, ok := util.Menu("Select an installed server", instanceNames(installed))
		if !ok {
			return nil
		}
		toStart = &installed[idx]
	}

	if toStart == nil {
		return nil
	}
	if javaPath == "" {
		javaPath = m.selectJava(toStart.Path, toStart.Version, javaFuture)
		if javaPath == "" {
			return nil
		}
	}
	return m.start(*toStart, javaPath)
}

// installNew walks the operator through version, channel, loader, and java
// selection and performs the install. A nil instance means clean cancel.
func (m *manager) installNew(javaFuture *tasks.Future[[]java.Installation]) (*services.Instance, string, error) {
	gameVersion, ok := m.promptGameVersion()
	if !ok {
		return nil, "", nil
	}

	// Loader lookups fan out while the operator is still reading the menu.
	forgeF := m.submitList(api.Forge, gameVersion)
	fabricF := m.submitList(api.Fabric, gameVersion)
	neoF := m.submitList(api.NeoForge, gameVersion)

	channel, ok := m.promptChannel(gameVersion, forgeF, fabricF, neoF)
	if !ok {
		return nil, "", nil
	}

	loaderVersion := ""
	if channel != api.Vanilla {
		lists := map[api.Channel]*tasks.Future[[]api.VersionDescriptor]{
			api.Forge: forgeF, api.Fabric: fabricF, api.NeoForge: neoF,
		}
		descriptors, _ := lists[channel].Wait()
		if len(descriptors) == 0 {
			return nil, "", fmt.Errorf("no %s versions available for %s", channel, gameVersion)
		}
		labels := make([]string, len(descriptors))
		for i, d := range descriptors {
			labels[i] = d.Label
		}
		idx, ok := util.Menu(fmt.Sprintf("Select a %s version", channel), labels)
		if !ok {
			return nil, "", nil
		}
		loaderVersion = descriptors[idx].ID
	}

	inst := services.NewInstance(m.root, channel, gameVersion, loaderVersion)
	if _, err := os.Stat(inst.Path); err == nil {
		overwrite, ok := util.Confirm("Directory " + inst.DirName + " already exists. Overwrite it?")
		if !ok || !overwrite {
			return nil, "", nil
		}
		if err := os.RemoveAll(inst.Path); err != nil {
			return nil, "", err
		}
	}

	javaPath := m.selectJava(inst.Path, gameVersion, javaFuture)
	if javaPath == "" {
		return nil, "", nil
	}

	if err := services.Install(m.catalogs[channel], inst, javaPath); err != nil {
		return nil, "", err
	}
	if err := fileutils.AcceptEula(inst.Path); err != nil {
		return nil, "", err
	}
	pterm.Success.Println("Installed " + inst.DirName)
	return &inst, javaPath, nil
}

func (m *manager) submitList(channel api.Channel, gameVersion string) *tasks.Future[[]api.VersionDescriptor] {
	cat := m.catalogs[channel]
	return tasks.Submit(m.pool, func() ([]api.VersionDescriptor, error) {
		return cat.ListVersions(gameVersion), nil
	})
}

// promptGameVersion narrows the release list down by major series first,
// because the flat list is hundreds of entries long.
func (m *manager) promptGameVersion() (string, bool) {
	releases := m.catalogs[api.Vanilla].ListVersions("")
	if len(releases) == 0 {
		pterm.Error.Println("Could not fetch the Minecraft version list.")
		return "", false
	}

	seriesOf := func(id string) string {
		parts := strings.SplitN(id, ".", 3)
		if len(parts) < 2 {
			return id
		}
		return parts[0] + "." + parts[1]
	}

	seen := make(map[string]struct{})
	var series []string
	for _, v := range releases {
		s := seriesOf(v.ID)
		if _, dup := seen[s]; !dup {
			seen[s] = struct{}{}
			series = append(series, s)
		}
	}
	sort.Slice(series, func(i, j int) bool {
		return semver.Compare("v"+series[i], "v"+series[j]) > 0
	})

	idx, ok := util.Menu("Select a Minecraft version series", series)
	if !ok {
		return "", false
	}
	picked := series[idx]

	var versions []string
	for _, v := range releases {
		if seriesOf(v.ID) == picked {
			versions = append(versions, v.ID)
		}
	}
	idx, ok = util.Menu("Select a Minecraft version", versions)
	if !ok {
		return "", false
	}
	return versions[idx], true
}

// promptChannel renders fetch progress until all three loader lookups are
// done, then offers whatever channels actually have versions.
func (m *manager) promptChannel(gameVersion string, forgeF, fabricF, neoF *tasks.Future[[]api.VersionDescriptor]) (api.Channel, bool) {
	named := []struct {
		name   string
		future *tasks.Future[[]api.VersionDescriptor]
	}{
		{"Forge", forgeF}, {"Fabric", fabricF}, {"NeoForge", neoF},
	}
	render := func() {
		var parts []string
		for _, n := range named {
			if n.future.Done() {
				parts = append(parts, pterm.Green("[✓] ")+n.name)
			} else {
				parts = append(parts, pterm.Yellow("[..] ")+n.name)
			}
		}
		pterm.Printo("Fetching server info: " + strings.Join(parts, " "))
	}
	for !tasks.AllDone(forgeF, fabricF, neoF) {
		render()
		time.Sleep(100 * time.Millisecond)
	}
	render()
	fmt.Println()

	available := []api.Channel{api.Vanilla}
	for _, n := range named {
		if list, _ := n.future.Wait(); len(list) > 0 {
			available = append(available, api.Channel(strings.ToLower(n.name)))
		}
	}

	if len(available) == 1 {
		pterm.Info.Println("Only " + string(available[0]) + " is available, selecting it.")
		return available[0], true
	}

	labels := make([]string, len(available))
	for i, ch := range available {
		labels[i] = string(ch)
	}
	idx, ok := util.Menu("Select a server type for MC "+gameVersion, labels)
	if !ok {
		return "", false
	}
	return available[idx], true
}

// selectJava resolves which Java to launch with: the saved per-server choice
// when it still exists, otherwise a pick from discovery, optionally saved.
func (m *manager) selectJava(serverDir, gameVersion string, javaFuture *tasks.Future[[]java.Installation]) string {
	if saved := fileutils.LoadJavaPath(serverDir); saved != "" {
		exe := filepath.Join(saved, "bin", "java")
		if info, err := os.Stat(exe); err == nil && info.Mode().Perm()&0111 != 0 {
			pterm.Success.Println("Using saved Java: " + saved)
			return exe
		}
		pterm.Warning.Println("Saved Java path " + saved + " is no longer valid, pick again.")
	}

	installs, _ := javaFuture.Wait()
	if len(installs) == 0 {
		pterm.Error.Println("No Java installation found. Install Java and try again.")
		return ""
	}

	labels := make([]string, len(installs))
	for i, inst := range installs {
		labels[i] = inst.String()
	}
	idx, ok := util.Menu("Select a Java version for MC "+gameVersion, labels)
	if !ok {
		return ""
	}
	selected := installs[idx]

	if save, ok := util.Confirm("Save " + selected.Alias + " as this server's default Java?"); ok && save {
		if err := fileutils.SaveJavaPath(serverDir, selected.Home); err != nil {
			pterm.Warning.Println("Could not save Java path:", err)
		}
	}
	return selected.Exec()
}

func (m *manager) start(inst services.Instance, javaPath string) error {
	plan, err := services.BuildLaunchPlan(inst, javaPath)
	if err != nil {
		return err
	}
	pterm.Info.Println("Working directory: " + plan.Dir)
	pterm.Info.Println("Command: " + strings.Join(plan.Command, " "))

	code, err := console.New().Run(plan.Command, plan.Dir)
	if err != nil {
		return err
	}
	pterm.Info.Printfln("Server exited with code %d", code)
	return nil
}

func (m *manager) listServers(*cli.Context) error {
	installed := services.ListInstalled(m.root)
	if len(installed) == 0 {
		fmt.Println("No servers installed under " + m.root)
		return nil
	}

	lname, lchannel := 0, 0
	for _, inst := range installed {
		if len(inst.DirName) > lname {
			lname = len(inst.DirName)
		}
		if len(string(inst.Channel)) > lchannel {
			lchannel = len(string(inst.Channel))
		}
	}

	fmt.Println()
	fmt.Println(text.AlignDefault.Apply("NAME:", lname+2) + text.AlignDefault.Apply("TYPE:", lchannel+2) + "VERSION:")
	for _, inst := range installed {
		fmt.Println(text.AlignDefault.Apply(text.Bold.Sprint(inst.DirName), lname+2) +
			text.AlignDefault.Apply(string(inst.Channel), lchannel+2) + inst.Version)
	}
	fmt.Println()
	return nil
}

func (m *manager) listJava(*cli.Context) error {
	defer m.pool.Shutdown()
	installs := java.Discover(m.pool, java.DefaultSearchRoots())
	if len(installs) == 0 {
		fmt.Println("No Java installations found")
		return nil
	}

	lalias, lversion, lkind := 0, 0, 0
	for _, inst := range installs {
		if len(inst.Alias) > lalias {
			lalias = len(inst.Alias)
		}
		if len(inst.Version) > lversion {
			lversion = len(inst.Version)
		}
		if len(inst.Kind) > lkind {
			lkind = len(inst.Kind)
		}
	}

	fmt.Println()
	fmt.Println(text.AlignDefault.Apply("ALIAS:", lalias+2) + text.AlignDefault.Apply("VERSION:", lversion+2) +
		text.AlignDefault.Apply("KIND:", lkind+2) + "HOME:")
	for _, inst := range installs {
		fmt.Println(text.AlignDefault.Apply(text.Bold.Sprint(inst.Alias), lalias+2) +
			text.AlignDefault.Apply(inst.Version, lversion+2) +
			text.AlignDefault.Apply(inst.Kind, lkind+2) + inst.Home)
	}
	fmt.Println()
	return nil
}

func instanceNames(installed []services.Instance) []string {
	names := make([]string, len(installed))
	for i, inst := range installed {
		names[i] = inst.DirName
	}
	return names
}
