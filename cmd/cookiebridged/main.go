// Command cookiebridged is the native messaging host binary. Browsers spawn
// it with stdin/stdout wired to the extension; it also offers install,
// export, and import subcommands for use from a regular shell.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli"

	"github.com/steipete/cookiebridge"
)

var version = "dev"

func main() {
	app := cli.NewApp()
	app.Name = "cookiebridged"
	app.Usage = "native messaging host for the cookie manager extension"
	app.Version = version
	app.Commands = []cli.Command{
		{
			Name:   "run",
			Usage:  "serve native messaging requests on stdin/stdout",
			Action: run,
			Flags:  storeFlags,
		},
		{
			Name:   "install",
			Usage:  "install the native messaging host manifests",
			Action: install,
			Flags: []cli.Flag{
				cli.StringFlag{Name: "host-path", Usage: "absolute path of the cookiebridged binary"},
				cli.StringFlag{Name: "chrome-id", Usage: "chrome extension ID"},
				cli.StringFlag{Name: "firefox-id", Usage: "firefox extension ID"},
			},
		},
		{
			Name:      "export",
			Usage:     "print cookies for a URL as Set-Cookie header lines",
			ArgsUsage: "<url>",
			Action:    export,
			Flags:     storeFlags,
		},
		{
			Name:      "import",
			Usage:     "import cookies from a JSON file",
			ArgsUsage: "<file>",
			Action:    importCookies,
			Flags: append([]cli.Flag{
				cli.StringFlag{Name: "fallback-domain", Usage: "domain for records that carry none"},
			}, storeFlags...),
		},
	}
	// Browsers launch the host with the manifest path as the only argument;
	// treat that invocation as `run`.
	app.Action = run
	app.Flags = storeFlags

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "cookiebridged: %s\n", err)
		os.Exit(1)
	}
}

var storeFlags = []cli.Flag{
	cli.StringFlag{Name: "browser, b", Value: "chrome", Usage: "cookie store flavor (chrome, chromium, edge, brave, vivaldi, opera, firefox)"},
	cli.StringFlag{Name: "profile, p", Usage: "profile name, profile dir, or explicit cookie DB path"},
}

func openStore(c *cli.Context) (cookiebridge.Store, error) {
	browser := cookiebridge.Browser(c.String("browser"))
	if browser == cookiebridge.BrowserFirefox {
		return cookiebridge.OpenFirefoxStore(c.String("profile"))
	}
	return cookiebridge.OpenChromiumStore(browser, c.String("profile"))
}

func run(c *cli.Context) error {
	store, err := openStore(c)
	if err != nil {
		return err
	}
	logger := log.New(os.Stderr, "cookiebridged: ", log.LstdFlags)
	logger.Printf("serving %s cookie store", c.String("browser"))
	return cookiebridge.NewHost(store, logger).Run(context.Background())
}

func install(c *cli.Context) error {
	hostPath := c.String("host-path")
	if hostPath == "" {
		exe, err := os.Executable()
		if err != nil {
			return err
		}
		hostPath = exe
	}

	installer := cookiebridge.ManifestInstaller{
		HostPath:           hostPath,
		ChromeExtensionID:  c.String("chrome-id"),
		FirefoxExtensionID: c.String("firefox-id"),
	}

	if installer.ChromeExtensionID != "" {
		for _, b := range []cookiebridge.Browser{cookiebridge.BrowserChrome, cookiebridge.BrowserChromium, cookiebridge.BrowserEdge, cookiebridge.BrowserBrave} {
			path, err := installer.InstallChrome(b)
			if err != nil {
				fmt.Fprintf(os.Stderr, "cookiebridged: %s: %s\n", b, err)
				continue
			}
			fmt.Printf("installed %s manifest: %s\n", b, path)
		}
	}
	if installer.FirefoxExtensionID != "" {
		path, err := installer.InstallFirefox()
		if err != nil {
			return err
		}
		fmt.Printf("installed firefox manifest: %s\n", path)
	}
	if installer.ChromeExtensionID == "" && installer.FirefoxExtensionID == "" {
		return fmt.Errorf("at least one of --chrome-id or --firefox-id is required")
	}
	return nil
}

func export(c *cli.Context) error {
	rawURL := c.Args().First()
	if rawURL == "" {
		return fmt.Errorf("url argument is required")
	}
	store, err := openStore(c)
	if err != nil {
		return err
	}

	co := cookiebridge.NewCoordinator(store)
	cookies, err := co.List(context.Background(), rawURL)
	if err != nil {
		return err
	}
	for _, cookie := range cookies {
		fmt.Println(cookiebridge.SetCookieHeader(cookie))
	}
	return nil
}

func importCookies(c *cli.Context) error {
	file := c.Args().First()
	if file == "" {
		return fmt.Errorf("file argument is required")
	}
	store, err := openStore(c)
	if err != nil {
		return err
	}

	cookies, err := cookiebridge.ReadImportSource(cookiebridge.ImportSource{File: file})
	if err != nil {
		return err
	}

	co := cookiebridge.NewCoordinator(store)
	result := co.Import(context.Background(), cookies, c.String("fallback-domain"))
	fmt.Printf("imported %d of %d cookies\n", result.Succeeded, result.Total)
	for _, item := range result.Items {
		if !item.Success {
			fmt.Printf("  failed: %s (%s)\n", item.Name, item.Error)
		}
	}
	return nil
}
