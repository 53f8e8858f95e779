package main

import "fmt"

// ANSI colors for output printed outside the TUI.
const (
	ansiReset  = "\033[0m"
	ansiBold   = "\033[1m"
	ansiItalic = "\033[3m"
	ansiBlue   = "\033[38;2;96;165;250m"  // #60a5fa
	ansiSky    = "\033[38;2;125;211;252m" // #7dd3fc
	ansiGreen  = "\033[38;2;52;212;116m"  // #34d474
	ansiSlate  = "\033[38;2;136;144;160m" // #8890a0
)

// printUpdateLogo prints the spaced AULA wordmark.
func printUpdateLogo() {
	letters := "AULA"
	colors := [2]string{ansiBlue, ansiSky}
	fmt.Print("\n  ")
	for i, ch := range letters {
		fmt.Printf("%s%s%c%s", colors[i%2], ansiBold, ch, ansiReset)
		if i < len(letters)-1 {
			fmt.Print("  ")
		}
	}
	fmt.Println()
}

func printUpdateSuccess(oldVersion, newVersion string) {
	printUpdateLogo()
	fmt.Printf("\n  %s%s%s  %s%s→%s  %s%s%s%s\n",
		ansiSlate, oldVersion, ansiReset,
		ansiBlue, ansiBold, ansiReset,
		ansiGreen, ansiBold, newVersion, ansiReset,
	)
	fmt.Printf("\n  %s%sActualización completa.%s\n\n", ansiSlate, ansiItalic, ansiReset)
}

func printAlreadyCurrent(currentVersion string) {
	printUpdateLogo()
	fmt.Printf("\n  %s%s%s%s  %s%sya tienes la última versión%s\n\n",
		ansiGreen, ansiBold, currentVersion, ansiReset,
		ansiSlate, ansiItalic, ansiReset,
	)
}
