package main

import (
	"flag"
	"log"
	"os"

	"github.com/df07/go-progressive-pathtracer/web/server"
)

func main() {
	port := flag.Int("port", 8080, "Port to serve on")
	scenesDir := flag.String("scenes", "scenes", "Directory scanned for YAML and PBRT scenes")
	staticDir := flag.String("static", "", "Directory of static files to serve at /")
	flag.Parse()

	webServer := server.NewServer(*port, *scenesDir, *staticDir)

	log.Printf("Progressive Path Tracer Web Server")
	log.Printf("Stream a render from http://localhost:%d/api/render?scene=default", *port)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
