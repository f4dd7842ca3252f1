// flowbuilder loads attack flow templates and themes, lays out diagrams
// and builds ATT&CK catalog bundles.
//
// Usage:
//
//	flowbuilder catalog -o ./output/attack.json [--combinations ./output/combinations.yaml]
//	flowbuilder templates validate ./templates
//	flowbuilder instantiate action --data action.json
//	flowbuilder layout --theme ./themes/light.yaml diagram.yaml
package main

import (
	"os"

	"github.com/sec-js/attack-flow/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
