// Command cborcat is a thin driver around package cbor: it decodes every
// top-level item it can read from a file or stdin and prints each one on its
// own line, prefixed by its index, in Go-syntax (%#v) form, or (with -encode)
// reads a JSON value from stdin and re-emits it as packed CBOR bytes. It is
// not part of the codec core contract; it exists only to exercise the Decoder
// and Encoder end to end from the command line.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/op/go-logging"
	"github.com/urfave/cli"

	"github.com/creachadair/cbor"
	"github.com/creachadair/cbor/cborstream"
)

var log = logging.MustGetLogger("cborcat")

func setupLogging(verbose bool) {
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	formatter := logging.MustStringFormatter(`%{time:15:04:05.000} %{level:.4s} ▶ %{message}`)
	formatted := logging.NewBackendFormatter(backend, formatter)
	leveled := logging.AddModuleLevel(formatted)
	if verbose {
		leveled.SetLevel(logging.DEBUG, "")
	} else {
		leveled.SetLevel(logging.WARNING, "")
	}
	logging.SetBackend(leveled)
}

func main() {
	app := cli.NewApp()
	app.Name = "cborcat"
	app.Usage = "decode or encode CBOR items from the command line"
	app.Flags = []cli.Flag{
		cli.BoolFlag{Name: "encode", Usage: "read JSON from stdin and emit packed CBOR"},
		cli.BoolFlag{Name: "v", Usage: "verbose diagnostic logging"},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "cborcat:", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	setupLogging(c.Bool("v"))

	if c.Bool("encode") {
		return runEncode(c)
	}
	return runDecode(c)
}

func runEncode(c *cli.Context) error {
	raw, err := io.ReadAll(os.Stdin)
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("parsing JSON: %w", err)
	}
	log.Debugf("encoding value: %#v", v)

	out, err := cbor.Pack(v)
	if err != nil {
		return fmt.Errorf("packing: %w", err)
	}
	_, err = os.Stdout.Write(out)
	return err
}

func runDecode(c *cli.Context) error {
	var r io.Reader = os.Stdin
	if name := c.Args().First(); name != "" {
		f, err := os.Open(name)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	count := 0
	var firstErr error
	a := cborstream.New(cbor.NewDecoder())
	a.OnMessage(func(item cbor.Item, unknownTag *uint64) {
		printItem(count, item, unknownTag)
		count++
	})
	a.OnError(func(err error) {
		if firstErr == nil {
			firstErr = fmt.Errorf("item %d: %w", count, err)
		}
	})
	a.Write(raw)
	a.Close()
	log.Debugf("decoded %d item(s)", count)
	return firstErr
}

func printItem(index int, item cbor.Item, unknownTag *uint64) {
	if unknownTag != nil {
		fmt.Printf("[%d] tag=%d %#v\n", index, *unknownTag, item)
		return
	}
	fmt.Printf("[%d] %#v\n", index, item)
}
