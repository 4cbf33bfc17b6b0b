package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/eigerco/levelbind/pkg/config"
	"github.com/eigerco/levelbind/pkg/leveldb"
)

const usage = `usage: levelbind [flags] <command> [args]

commands:
  get <key>          print the value of key
  put <key> <value>  store value under key
  delete <key>       remove key
  keys               list every key in order
  count              print the number of keys
  dump               print every key and value in order
  property <name>    print an engine property, e.g. leveldb.stats
  destroy            remove the database
`

// main runs one command against a database.
// go run ./cmd/levelbind -db /tmp/data put a 1
func main() {
	configFile := flag.String("config", "", "Config file, levelbind.yaml by default")
	engine := flag.String("engine", "", "Engine override: goleveldb, pebble or libleveldb")
	path := flag.String("db", "", "Database location")
	create := flag.Bool("create", true, "Create the database if it is missing")
	raw := flag.Bool("raw", false, "Print keys and values as hex")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *path == "" || flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatal(err)
	}
	if *engine != "" {
		cfg.Engine = *engine
	}
	lib, err := leveldb.Load(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer lib.Close()

	if err := run(lib, *path, *create, *raw, flag.Args()); err != nil {
		lib.Close()
		log.Fatal(err)
	}
}

func run(lib *leveldb.Library, path string, create, raw bool, args []string) error {
	cmd, args := args[0], args[1:]
	if cmd == "destroy" {
		return lib.Destroy(path)
	}

	want := map[string]int{"get": 1, "put": 2, "delete": 1, "keys": 0, "count": 0, "dump": 0, "property": 1}
	n, ok := want[cmd]
	if !ok {
		return fmt.Errorf("unknown command %q", cmd)
	}
	if len(args) != n {
		return fmt.Errorf("%s: expected %d arguments, got %d", cmd, n, len(args))
	}

	d, err := lib.Connect(path, leveldb.CreateIfMissing(create))
	if err != nil {
		return err
	}
	defer d.Close(false)

	switch cmd {
	case "get":
		v, err := d.Get(args[0], raw, false, nil)
		if err != nil {
			return err
		}
		if v.IsAbsent() {
			return errors.New("not found")
		}
		fmt.Println(format(v))
	case "put":
		return d.Put(args[0], args[1], nil)
	case "delete":
		return d.Delete(args[0], nil)
	case "keys":
		keys, err := d.Keys(raw, nil)
		if err != nil {
			return err
		}
		for _, k := range keys {
			fmt.Println(format(k))
		}
	case "count":
		n, err := d.KeysLen(nil)
		if err != nil {
			return err
		}
		fmt.Println(n)
	case "dump":
		return dump(d, raw)
	case "property":
		v, _, err := d.Property(args[0], true)
		if err != nil {
			return err
		}
		fmt.Println(v)
	}
	return nil
}

func dump(d *leveldb.DB, raw bool) error {
	it, err := d.NewIterator(nil)
	if err != nil {
		return err
	}
	defer it.Destroy(false)

	for err = it.SeekToFirst(); err == nil && it.Valid(); err = it.Next() {
		k, err := it.Key(raw, true)
		if err != nil {
			return err
		}
		v, err := it.Value(raw, true)
		if err != nil {
			return err
		}
		fmt.Printf("%s\t%s\n", format(k), format(v))
	}
	return err
}

func format(v leveldb.Value) string {
	if v.Kind() == leveldb.Raw {
		return fmt.Sprintf("%x", v.Bytes())
	}
	return v.String()
}
