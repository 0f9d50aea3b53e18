package main

import "github.com/shester1kov/go-online-workout-tracker/cmd/tracker"

func main() {
	tracker.Execute()
}
