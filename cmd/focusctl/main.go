package main

import "focusbar/cmd/focusctl/arg"

func main() {
	arg.Execute()
}
