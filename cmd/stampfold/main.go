// Stampfold evaluates arithmetic operations on constants and stamps.
//
// Operands are constants such as i32:-3 or f64:1.5, or stamps such as
// "i32 [0 - 10]" or "f64! [1.0 - 2.0]". If all operands are constants,
// the operation is constant-folded; otherwise, the result is the stamp
// of all possible results.
//
//	stampfold Add i8:100 i8:100
//	stampfold Mul "i32 [0 - 10]" "i32 [-1 - 1]"
//	stampfold Narrow 8 "i32 [0 - 300]"
//	stampfold meet "i8 [0 - 3]" "i8 [10]"
//	stampfold invert SignExtend 8 "i32 [-10 - 300]"
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"honnef.co/go/stamps/version"
)

var (
	jsonFlag    = flag.Bool("json", false, "Format data as JSON")
	versionFlag = flag.Bool("version", false, "Print version and exit")
)

func emit(w io.Writer, res result, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "\t")
		return enc.Encode(res)
	}
	if res.Result == "" {
		_, err := fmt.Fprintln(w, "no result")
		return err
	}
	_, err := fmt.Fprintln(w, res.Result)
	return err
}

func main() {
	log.SetFlags(0)
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), errUsage)
		fmt.Fprintln(flag.CommandLine.Output(), "OPTIONS:")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *versionFlag {
		version.Print(os.Stdout)
		os.Exit(0)
	}

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}

	res, err := fold(flag.Args())
	if err != nil {
		log.Fatal(err)
	}
	if err := emit(os.Stdout, res, *jsonFlag); err != nil {
		log.Fatal(err)
	}
}
