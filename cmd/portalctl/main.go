package main

import "github.com/atlasbahamas/portal-client/cmd/portalctl/cmd"

func main() {
	cmd.Execute()
}
