package main

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"

	"github.com/bodgit/hdpack"
	"github.com/bodgit/hdpack/pack"
	"github.com/bodgit/hdpack/tile"
	"github.com/urfave/cli/v2"
	_ "golang.org/x/image/bmp"
	"gopkg.in/yaml.v3"
)

const defaultDB = "hdpack.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

type subImager interface {
	SubImage(image.Rectangle) image.Image
}

func native(file string, x, y int) ([]byte, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}

	if si, ok := m.(subImager); ok {
		origin := m.Bounds().Min.Add(image.Pt(x, y))
		m = si.SubImage(image.Rectangle{Min: origin, Max: origin.Add(image.Pt(tile.Size, tile.Size))})
	}

	b := new(bytes.Buffer)
	if err := tile.Encode(b, m); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func newApp(cwd string) *cli.App {
	app := cli.NewApp()

	app.Name = "hdpack"
	app.Usage = "HD pack maintenance utility"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"HDPACK_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "validate",
			Usage:       "Load every pack under a directory",
			Description: "",
			ArgsUsage:   "DIRECTORY",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "workers",
					Value: 10,
					Usage: "number of packs to load at once",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				if err := hdpack.Validate(context.Background(), c.Args().First(), c.Int("workers"), newLogger(c)); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "info",
			Usage:       "Summarise a pack",
			Description: "",
			ArgsUsage:   "DIRECTORY",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				p, err := pack.Load(context.Background(), c.Args().First(), newLogger(c))
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				enc := yaml.NewEncoder(os.Stdout)
				defer enc.Close()
				if err := enc.Encode(p.Stats()); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "dump",
			Usage:       "Write a pack definition in canonical form",
			Description: "",
			ArgsUsage:   "DIRECTORY",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				p, err := pack.Load(context.Background(), c.Args().First(), newLogger(c))
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				if err := pack.Write(os.Stdout, p); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "register",
			Usage:       "Register a pack for a ROM",
			Description: "",
			ArgsUsage:   "ROM DIRECTORY",
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				logger := newLogger(c)

				// Refuse to register anything that won't load
				if _, err := pack.Load(context.Background(), c.Args().Get(1), logger); err != nil {
					return cli.NewExitError(err, 1)
				}

				crc, err := hdpack.CRCFile(c.Args().First())
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				db, err := hdpack.NewDB(c.String("db"))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer db.Close()

				if err := db.Register(crc, c.Args().Get(1)); err != nil {
					return cli.NewExitError(err, 1)
				}
				logger.Printf("Registered \"%s\" with CRC \"%s\"\n", c.Args().Get(1), crc)

				return nil
			},
		},
		{
			Name:        "lookup",
			Usage:       "Print the pack registered for a ROM",
			Description: "",
			ArgsUsage:   "ROM",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				crc, err := hdpack.CRCFile(c.Args().First())
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				db, err := hdpack.NewDB(c.String("db"))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer db.Close()

				dir, err := db.FindPackByCRC(crc)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				if dir == "" {
					return cli.NewExitError(fmt.Sprintf("no pack for \"%s\", with CRC \"%s\"", c.Args().First(), crc), 1)
				}
				fmt.Println(dir)

				return nil
			},
		},
		{
			Name:        "list",
			Usage:       "List registered packs",
			Description: "",
			Action: func(c *cli.Context) error {
				db, err := hdpack.NewDB(c.String("db"))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer db.Close()

				packs, err := db.Packs()
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				enc := yaml.NewEncoder(os.Stdout)
				defer enc.Close()
				for _, p := range packs {
					if err := enc.Encode(map[string][]string{p.Dir: p.Checksums}); err != nil {
						return cli.NewExitError(err, 1)
					}
				}

				return nil
			},
		},
		{
			Name:        "native",
			Usage:       "Convert an image to native tile data",
			Description: "",
			ArgsUsage:   "IMAGE",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "x",
					Usage: "left edge of the tile",
				},
				&cli.IntFlag{
					Name:  "y",
					Usage: "top edge of the tile",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				b, err := native(c.Args().First(), c.Int("x"), c.Int("y"))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				fmt.Printf("%X\n", b)

				return nil
			},
		},
	}

	return app
}

func main() {
	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	if err := newApp(cwd).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
