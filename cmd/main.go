package main

import (
	"fmt"
	"os"

	"github.com/ostafen/rescue/cmd/cmd"
	"github.com/ostafen/rescue/internal/env"
)

func main() {
	PrintLogo()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func PrintLogo() {
	fmt.Println(" _ __ ___  ___  ___ _   _  ___ ")
	fmt.Println("| '__/ _ \\/ __|/ __| | | |/ _ \\")
	fmt.Println("| | |  __/\\__ \\ (__| |_| |  __/")
	fmt.Println("|_|  \\___||___/\\___|\\__,_|\\___|")
	fmt.Println()
	fmt.Println("File carving and recovery tool")
	fmt.Println()
	fmt.Printf("Version:   %s\n", env.Version)
	fmt.Printf("Commit:    %s\n", env.CommitHash)
	fmt.Printf("Build Time: %s\n", env.BuildTime)
	fmt.Println(" ")
}
