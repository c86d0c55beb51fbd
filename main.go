package main

import "github.com/ValentinKolb/storagefor/cmd"

func main() {
	cmd.Execute()
}
