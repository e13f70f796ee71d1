// Command example is a minimal embedder demonstrating the engine: a
// single counter component, incremented on space and reset on "r", quit
// on "q" or ctrl+c.
package main

import (
	"fmt"
	"os"

	"github.com/xec-sh/xtui"
)

type counter struct {
	xtui.BaseComponent
	n    int
	quit func()
}

func (c *counter) Render(ctx *xtui.RenderContext) xtui.Output {
	return xtui.Output{Lines: []string{fmt.Sprintf("count: %d  (space: +1, r: reset, q: quit)", c.n)}}
}

func (c *counter) HandleKey(ev xtui.KeyEvent) bool {
	switch ev.Name {
	case xtui.KeySpace:
		c.n++
		return true
	case "r":
		c.n = 0
		return true
	case "q", "c":
		if ev.Name == "c" && !ev.Modifiers.Has(xtui.ModCtrl) {
			return false
		}
		c.quit()
		return true
	}
	return false
}

func main() {
	eng, err := xtui.NewEngine(
		xtui.WithOutput(os.Stdout),
		xtui.WithInput(os.Stdin),
		xtui.WithFPS(30),
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, "xtui:", err)
		os.Exit(1)
	}

	root := &counter{}
	root.quit = func() { go eng.Stop() }
	if err := eng.Start(root); err != nil {
		fmt.Fprintln(os.Stderr, "xtui:", err)
		os.Exit(1)
	}

	eng.Wait()
}
