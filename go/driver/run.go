//
// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use
// of this software will be governed by the GNU Lesser General Public Licence v3
//

package main

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"time"

	"github.com/Fantom-foundation/Fidelio/go/engine"
	_ "github.com/Fantom-foundation/Fidelio/go/engine/leonore"
	"github.com/Fantom-foundation/Fidelio/go/runner"
	"github.com/Fantom-foundation/Fidelio/go/vector"
	"github.com/dsnet/golib/unitconv"
	"github.com/urfave/cli/v2"
	"golang.org/x/exp/maps"
)

var RunCmd = cli.Command{
	Action:    doRun,
	Name:      "run",
	Usage:     "Run state tests against an execution engine",
	ArgsUsage: "<file-or-directory> ...",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "engine",
			Usage: "the execution engine to be tested",
			Value: "leonore",
		},
		&cli.StringFlag{
			Name:  "filter",
			Usage: "run only tests whose name matches the given regex",
			Value: ".*",
		},
	},
}

func doRun(context *cli.Context) error {
	engineName := context.String("engine")
	if engine.GetFactory(engineName) == nil {
		return fmt.Errorf(
			"invalid engine identifier, use one of: %v",
			maps.Keys(engine.GetAllRegisteredFactories()))
	}

	filter, err := regexp.Compile(context.String("filter"))
	if err != nil {
		return err
	}

	if context.Args().Len() == 0 {
		return fmt.Errorf("no test files given")
	}

	tests := map[string]*vector.Test{}
	for _, path := range context.Args().Slice() {
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		var loaded map[string]*vector.Test
		if info.IsDir() {
			loaded, err = vector.LoadDir(path)
		} else {
			loaded, err = vector.LoadFile(path)
		}
		if err != nil {
			return err
		}
		for name, test := range loaded {
			tests[name] = test
		}
	}

	names := maps.Keys(tests)
	sort.Strings(names)

	numRun := 0
	start := time.Now()
	for _, name := range names {
		if !filter.MatchString(name) {
			continue
		}
		if err := runner.Run(engineName, name, tests[name], os.Stdout); err != nil {
			return err
		}
		numRun++
	}
	duration := time.Since(start)

	rate := float64(numRun) / duration.Seconds()
	fmt.Printf(
		"Finished %d tests in %v (~%s tests per second)\n",
		numRun, duration.Round(time.Millisecond),
		unitconv.FormatPrefix(rate, unitconv.SI, 1),
	)
	return nil
}
