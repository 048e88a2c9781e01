// quark CLI - runs the vector smoke program and inspects stored snapshots
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/chazu/quark/lib/runtime"
	"github.com/chazu/quark/manifest"
	"github.com/chazu/quark/store"
)

var log = commonlog.GetLogger("quark")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	configDir string
	verbose   bool
	smoke     bool
	save      bool
	storePath string
	list      bool
	show      string
}

func parseFlags(args []string, out io.Writer) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("quark", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVar(&opts.configDir, "config", ".", "Directory to search upwards for quark.toml")
	fs.BoolVar(&opts.verbose, "v", false, "Verbose output")
	fs.BoolVar(&opts.smoke, "smoke", false, "Run the vector smoke program")
	fs.BoolVar(&opts.save, "save", false, "Save the smoke program's vectors to the store (with -smoke)")
	fs.StringVar(&opts.storePath, "store", "", "Snapshot database path (overrides quark.toml)")
	fs.BoolVar(&opts.list, "list", false, "List stored snapshots")
	fs.StringVar(&opts.show, "show", "", "Print the stored snapshot with this name")

	fs.Usage = func() {
		fmt.Fprintf(out, "Usage: quark [options]\n\n")
		fmt.Fprintf(out, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(out, "\nExamples:\n")
		fmt.Fprintf(out, "  quark -smoke                # Run the smoke program\n")
		fmt.Fprintf(out, "  quark -smoke -save          # Run it and keep its vectors\n")
		fmt.Fprintf(out, "  quark -list                 # List stored snapshots\n")
		fmt.Fprintf(out, "  quark -show smoke.selected  # Print one snapshot\n")
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return opts, nil
}

func run(args []string, out io.Writer) error {
	opts, err := parseFlags(args, out)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	m, err := manifest.FindAndLoad(opts.configDir)
	if err != nil {
		return err
	}
	if m == nil {
		m = manifest.Default()
	}

	verbosity := m.Diagnostics.Verbosity
	if opts.verbose && verbosity < 4 {
		verbosity = 4
	}
	commonlog.Configure(verbosity, m.LogFilePath())

	cfg := runtime.ConfigFromManifest(m)
	cfg.Stdout = out
	rt, err := runtime.New(cfg)
	if err != nil {
		return err
	}
	defer rt.Close()
	log.Infof("runtime ready (allocator %s, %d builtins)", rt.Stats().Allocator, rt.Stats().Builtins)

	storePath := opts.storePath
	if storePath == "" {
		storePath = m.StorePath()
	}
	needStore := (opts.smoke && opts.save) || opts.list || opts.show != ""
	var st *store.Store
	if needStore {
		st, err = store.Open(storePath)
		if err != nil {
			return err
		}
		defer st.Close()
		st.SetAllocator(rt.Allocator())
	}

	did := false
	if opts.smoke {
		did = true
		if err := runSmoke(rt, st); err != nil {
			return err
		}
	}
	if opts.list {
		did = true
		if err := listSnapshots(st, out); err != nil {
			return err
		}
	}
	if opts.show != "" {
		did = true
		v, err := st.Load(opts.show)
		if err != nil {
			return err
		}
		val := runtime.WrapVector(v)
		fmt.Fprintf(out, "%s (%s)\n", opts.show, val.TypeName())
		rt.Println(val)
	}
	if !did {
		fmt.Fprintf(out, "nothing to do; try -smoke or -list (see -h)\n")
	}

	if opts.verbose {
		stats := rt.Stats()
		name := stats.Allocator
		if stats.AllocatorID != "" {
			name += " " + stats.AllocatorID
		}
		s := stats.Alloc
		fmt.Fprintf(out, "allocator %s: %d allocations, %d bytes, %d objects\n",
			name, s.Allocations, s.Bytes, s.Objects)
	}
	return nil
}

// runSmoke evaluates the vector smoke program:
//
//	v = to_vector([10, 20, 30, 40, 50])
//	println(v + 5)
//	mask = v > 25
//	println(v[mask])
//	println(sum(v[mask]))
//
// followed by a null and categorical round. With a store, the vectors it
// builds are saved under smoke.*.
func runSmoke(rt *runtime.Runtime, st *store.Store) error {
	list := rt.NewList(5)
	for _, n := range []int64{10, 20, 30, 40, 50} {
		rt.Push(list, runtime.MakeInt(n))
	}
	v := rt.ToVector(list)
	shifted := rt.Add(v, runtime.MakeInt(5))
	mask := rt.Gt(v, runtime.MakeInt(25))
	selected := rt.Get(v, mask)
	total := rt.CallBuiltin("sum", selected)

	rt.Println(v)
	rt.Println(shifted)
	rt.Println(mask)
	rt.Println(selected)
	rt.Println(total)

	withNulls := rt.MakeVectorF64(1.5, 2.5, 3.5)
	rt.SetNullAt(withNulls, runtime.MakeInt(1))
	rt.Println(withNulls)
	rt.Println(rt.CallMethod(withNulls, "count"))
	rt.FillNA(withNulls, runtime.MakeFloat(0))
	rt.Println(withNulls)

	colors := rt.MakeVectorCat("red", "green", "red", "blue")
	rt.Println(colors)
	rt.Println(rt.Eq(colors, runtime.MakeString("red")))

	if st == nil {
		return nil
	}
	snapshots := []struct {
		name string
		val  runtime.Value
	}{
		{"smoke.v", v},
		{"smoke.shifted", shifted},
		{"smoke.mask", mask},
		{"smoke.selected", selected},
		{"smoke.filled", withNulls},
		{"smoke.colors", colors},
	}
	for _, s := range snapshots {
		if s.val.Kind() != runtime.KindVector {
			return fmt.Errorf("smoke value %s is %s, not a vector", s.name, s.val.TypeName())
		}
		if _, err := st.Save(s.name, s.val.AsVector()); err != nil {
			return err
		}
	}
	log.Noticef("saved %d snapshots to %s", len(snapshots), st.Path())
	return nil
}

func listSnapshots(st *store.Store, out io.Writer) error {
	entries, err := st.List()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintf(out, "no snapshots in %s\n", st.Path())
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "NAME\tDTYPE\tLEN\tBYTES\tSAVED\tID\n")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%s\n",
			e.Name, e.DType, e.Count, e.Size, e.CreatedAt.Format(time.DateTime), e.ID)
	}
	return w.Flush()
}
