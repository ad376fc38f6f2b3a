package main

import "github.com/aripiprazole/soft/cmd"

func main() {
	cmd.Execute()
}
