// Command cartview prints the cart view or the ready list of a raw order
// payload without a database.
//
//	cartview -mode cart order.json
//	curl -s $BACKEND/orders/42 | cartview -mode ready
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/kiwari-pos/cartview/internal/orderview"
)

var errUsage = errors.New("usage: cartview [-mode cart|ready] [-pretty] [file]")

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("cartview", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	mode := fs.String("mode", "cart", "view to print: cart or ready")
	pretty := fs.Bool("pretty", false, "indent JSON output")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() > 1 {
		return errUsage
	}

	in := stdin
	if fs.NArg() == 1 && fs.Arg(0) != "-" {
		f, err := os.Open(fs.Arg(0))
		if err != nil {
			return fmt.Errorf("open payload: %w", err)
		}
		defer f.Close()
		in = f
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("read payload: %w", err)
	}
	order, err := orderview.ParseOrder(data)
	if err != nil {
		return err
	}

	var out any
	switch *mode {
	case "cart":
		out = orderview.BuildCart(order)
	case "ready":
		out = orderview.ProjectReady(order)
	default:
		return fmt.Errorf("unknown mode %q: %w", *mode, errUsage)
	}

	enc := json.NewEncoder(stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(out)
}
