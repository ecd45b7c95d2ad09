// Command planinfo prints a summary of a floorplan file: plan metadata,
// element counts, and per-element measurements.
//
// Usage: planinfo <floorplan-file>
package main

import (
	"fmt"
	"os"

	"floor-sketch/internal/element"
	"floor-sketch/internal/project"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <floorplan-file>\n", os.Args[0])
		os.Exit(1)
	}

	f, err := project.Load(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading plan: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Plan:     %s\n", f.Name)
	fmt.Printf("ID:       %s\n", f.ID)
	fmt.Printf("Created:  %s\n", f.Created.Format("2006-01-02 15:04"))
	fmt.Printf("Modified: %s\n", f.Modified.Format("2006-01-02 15:04"))
	fmt.Printf("Scale:    %g px/cm\n", f.PixelsPerUnit)
	fmt.Printf("Elements: %d\n\n", len(f.Elements))

	counts := make(map[element.Kind]int)
	for _, el := range f.Elements {
		counts[el.Kind]++
	}
	for _, kind := range []element.Kind{
		element.KindLine, element.KindRectangle, element.KindCircle,
		element.KindText, element.KindDoor,
	} {
		if counts[kind] > 0 {
			fmt.Printf("  %-10s %d\n", kind, counts[kind])
		}
	}
	fmt.Println()

	for _, el := range f.Elements {
		name := el.Label
		if name == "" {
			name = string(el.Kind)
		}
		switch el.Kind {
		case element.KindLine:
			fmt.Printf("  %-16s %.1f cm\n", name, el.Line.LengthCm)
		case element.KindRectangle:
			fmt.Printf("  %-16s %.1f x %.1f cm\n", name, el.Rect.WidthCm, el.Rect.HeightCm)
		case element.KindCircle:
			fmt.Printf("  %-16s r %.1f cm\n", name, el.Circle.RadiusCm)
		case element.KindText:
			fmt.Printf("  %-16s %q\n", name, el.Text.Content)
		case element.KindDoor:
			attached := ""
			if el.Door.Attachment != nil {
				attached = " (on wall)"
			}
			fmt.Printf("  %-16s %.1f cm%s\n", name, el.Door.WidthCm, attached)
		}
	}
}
