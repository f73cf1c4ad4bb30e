package main

import "github.com/frahmantamala/recruitment-performance/cmd"

func main() {
	cmd.Execute()
}
