package main

import "github.com/bloodmagesoftware/brushwork/cmd"

func main() {
	cmd.Execute()
}
