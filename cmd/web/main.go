package main

import "renthub_backend/internal/app"

func main() {
	app.Run()
}
