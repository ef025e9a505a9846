package main

import "github.com/llehouerou/sdplay/cmd"

func main() {
	cmd.Execute()
}
