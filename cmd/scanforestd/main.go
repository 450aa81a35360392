/*
Scanforestd is an optional HTTP front end for the parser engine: POST a
grammar and input, get back a parse tree, with every parse response tagged
with a fresh request UUID and jwt bearer-token authentication, generalizing
dekarrin/tunaq's server package (server.go/token.go/server/api/api.go) to a
single-purpose parse-as-a-service daemon instead of a full game server.

Usage:

	scanforestd [flags]

The flags are:

	-a, --addr ADDR
		Address to listen on. Defaults to ":8080".

	-s, --secret SECRET
		Shared HMAC secret used to sign and validate bearer tokens. Required.

	-c, --cache FILE
		sqlite file backing the compiled-table cache. Defaults to
		"scanforest-tables.db".
*/
package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/pflag"

	"github.com/dekarrin/scanforest/internal/store"
)

var (
	flagAddr   = pflag.StringP("addr", "a", ":8080", "address to listen on")
	flagSecret = pflag.StringP("secret", "s", "", "shared HMAC secret for bearer tokens (required)")
	flagCache  = pflag.StringP("cache", "c", "scanforest-tables.db", "sqlite file backing the compiled-table cache")
)

type server struct {
	jwtSecret []byte
	cache     *store.Store
}

func main() {
	pflag.Parse()

	if *flagSecret == "" {
		fmt.Fprintln(os.Stderr, "ERROR: --secret is required")
		os.Exit(3)
	}

	cache, err := store.Open(*flagCache)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		os.Exit(2)
	}
	defer cache.Close()

	s := &server{jwtSecret: []byte(*flagSecret), cache: cache}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Post("/v1/token", s.handleToken)
	r.Group(func(r chi.Router) {
		r.Use(requireBearerJWT(s.jwtSecret))
		r.Post("/v1/parse", s.handleParse)
	})

	log.Printf("scanforestd listening on %s", *flagAddr)
	if err := http.ListenAndServe(*flagAddr, r); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		os.Exit(2)
	}
}
