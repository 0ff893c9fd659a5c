package main

import (
	"UniProjectHub/internal/bootstrap"
	pkg "UniProjectHub/pkg/routes"

	"go.uber.org/fx"
)

func main() {
	bootstrap.Loadenv()

	app := fx.New(
		pkg.EchoModules,
	)

	app.Run()
}
