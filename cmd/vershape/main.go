package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/alecthomas/kong"

	"github.com/broady/vershape"
	"github.com/broady/vershape/edm"
)

type CLI struct {
	Verbose bool `help:"Log generation passes at debug level." short:"v"`

	Version  VersionCmd  `cmd:"" help:"Print version information."`
	Check    CheckCmd    `cmd:"" help:"Validate schema documents."`
	Describe DescribeCmd `cmd:"" help:"Print the types of one API version as JSON."`
	Diff     DiffCmd     `cmd:"" help:"List property changes between two API versions."`
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println(buildVersion())
	return nil
}

type CheckCmd struct {
	Schema []string `arg:"" help:"Schema documents (YAML or JSON)." type:"existingfile"`
}

func (c *CheckCmd) Run(logger *slog.Logger) error {
	var failed int
	for _, path := range c.Schema {
		models, err := edm.LoadFile(path)
		if err != nil {
			return err
		}
		for _, m := range models {
			// A strict registry rejects the same models Validate does and
			// also catches what a generation pass would trip over.
			_, err := vershape.NewRegistry(m, vershape.WithStrictModel(), vershape.WithLogger(logger))
			if err == nil {
				logger.Info("schema ok", "file", path, "version", m.Version.String(), "types", len(m.Types()))
				continue
			}
			failed++
			for _, verr := range m.Validate() {
				fmt.Fprintf(os.Stderr, "%s: version %s: %v\n", path, m.Version, verr)
			}
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d schema version(s) failed validation", failed)
	}
	return nil
}

type DescribeCmd struct {
	Schema  string `arg:"" help:"Schema document (YAML or JSON)." type:"existingfile"`
	Version string `help:"API version to describe. Defaults to the latest." short:"V"`
}

func (c *DescribeCmd) Run(logger *slog.Logger) error {
	set, err := loadSet(c.Schema)
	if err != nil {
		return err
	}
	m := set.Latest()
	if c.Version != "" {
		v, err := edm.ParseVersion(c.Version)
		if err != nil {
			return err
		}
		if m, err = set.Model(v); err != nil {
			return err
		}
	}
	logger.Debug("describing", "version", m.Version.String())
	return writeJSON(os.Stdout, describeModel(m))
}

type DiffCmd struct {
	Schema string `arg:"" help:"Schema document (YAML or JSON)." type:"existingfile"`
	From   string `arg:"" help:"Older API version."`
	To     string `arg:"" help:"Newer API version."`
}

func (c *DiffCmd) Run() error {
	set, err := loadSet(c.Schema)
	if err != nil {
		return err
	}
	from, err := modelFor(set, c.From)
	if err != nil {
		return err
	}
	to, err := modelFor(set, c.To)
	if err != nil {
		return err
	}
	for _, line := range diffModels(from, to) {
		fmt.Println(line)
	}
	return nil
}

func loadSet(path string) (*edm.ModelSet, error) {
	models, err := edm.LoadFile(path)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, errors.New("no schema documents in " + path)
	}
	return edm.NewModelSet(models...)
}

func modelFor(set *edm.ModelSet, s string) (*edm.Model, error) {
	v, err := edm.ParseVersion(s)
	if err != nil {
		return nil, err
	}
	return set.Model(v)
}

type typeView struct {
	Name       string         `json:"name"`
	Kind       string         `json:"kind"`
	Base       string         `json:"base,omitempty"`
	Key        []string       `json:"key,omitempty"`
	Properties []propertyView `json:"properties"`
}

type propertyView struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable,omitempty"`
}

type modelView struct {
	Version   string     `json:"version"`
	Namespace string     `json:"namespace"`
	Types     []typeView `json:"types"`
}

func describeModel(m *edm.Model) modelView {
	out := modelView{Version: m.Version.String(), Namespace: m.Namespace}
	for _, st := range m.Types() {
		tv := typeView{Name: st.FullName(), Kind: st.Kind.String(), Base: st.BaseType, Key: st.Key}
		for _, p := range m.Properties(st) {
			tv.Properties = append(tv.Properties, propertyView{Name: p.Name, Type: p.Type.String(), Nullable: p.Nullable})
		}
		out.Types = append(out.Types, tv)
	}
	return out
}

// diffModels lists added and removed types and properties, and properties
// whose type changed, as "+", "-" and "~" lines.
func diffModels(from, to *edm.Model) []string {
	var lines []string
	for _, st := range to.Types() {
		old := from.FindType(st.FullName())
		if old == nil {
			lines = append(lines, "+ "+st.FullName())
			continue
		}
		oldProps := from.Properties(old)
		newProps := to.Properties(st)
		for _, p := range newProps {
			i := slices.IndexFunc(oldProps, func(o edm.Property) bool { return o.Name == p.Name })
			switch {
			case i < 0:
				lines = append(lines, fmt.Sprintf("+ %s.%s %s", st.FullName(), p.Name, p.Type))
			case oldProps[i].Type.String() != p.Type.String():
				lines = append(lines, fmt.Sprintf("~ %s.%s %s -> %s", st.FullName(), p.Name, oldProps[i].Type, p.Type))
			}
		}
		for _, o := range oldProps {
			if !slices.ContainsFunc(newProps, func(p edm.Property) bool { return p.Name == o.Name }) {
				lines = append(lines, fmt.Sprintf("- %s.%s", st.FullName(), o.Name))
			}
		}
	}
	for _, st := range from.Types() {
		if to.FindType(st.FullName()) == nil {
			lines = append(lines, "- "+st.FullName())
		}
	}
	return lines
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("vershape"),
		kong.Description("Inspect versioned schema documents used for type projection."),
		kong.UsageOnError(),
	)
	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	err := ctx.Run(logger)
	ctx.FatalIfErrorf(err)
}
