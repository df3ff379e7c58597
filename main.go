package main

import "github.com/ishankhire/gt-meal-planning/cmd"

func main() {
	cmd.Execute()
}
