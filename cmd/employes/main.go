package main

import "github.com/deppfellow/employes-api/cmd/employes/cmd"

func main() {
	cmd.Execute()
}
