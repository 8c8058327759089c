package main

import (
	"os"

	"storefront/internal/cli"

	_ "storefront/docs"
)

// @title Storefront API
// @version 1.0
// @description Curtains storefront: catalog, cart, checkout, admin panel and orders/reviews backend.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
