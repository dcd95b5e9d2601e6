// FILE: lixenwraith/resolver/example/main.go
package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/lixenwraith/resolver"
	"github.com/lixenwraith/resolver/source"
)

// RequestConfig is the typed target for the resolved request template
type RequestConfig struct {
	URL     string            `json:"url"`
	Method  string            `json:"method"`
	Timeout time.Duration     `json:"timeout"`
	Retries int               `json:"retries"`
	Headers map[string]string `json:"headers"`
	Body    string            `json:"body"`
}

const contextFilePath = "context.yaml"

func main() {
	// =========================================================================
	// PART 1: INITIAL SETUP
	// Write a context document on disk for the program to read.
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 1: Creating context document...")

	defer func() {
		log.Println("---")
		log.Println("🧹 Cleaning up...")
		os.Remove(contextFilePath)
		os.Unsetenv("APP_SERVER_PORT")
		log.Printf("Removed %s and unset APP_SERVER_PORT.", contextFilePath)
	}()

	initial := map[string]any{
		"server": map[string]any{
			"host": "api.example.com",
			"port": 8080,
		},
		"campaign": map[string]any{
			"id":   "d03edb0c",
			"name": "spring launch",
		},
	}
	if err := source.WriteDocument(contextFilePath, initial, source.FormatAuto); err != nil {
		log.Fatalf("❌ Failed to write context document: %v", err)
	}
	log.Printf("✅ Context saved to %s.", contextFilePath)

	// =========================================================================
	// PART 2: LAYERED CONTEXT
	// Defaults < file < env < cli, merged into one nested map.
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 2: Assembling the data context...")

	os.Setenv("APP_SERVER_PORT", "8888")
	log.Println("   (Set environment variable APP_SERVER_PORT=8888)")

	ctx := source.New()
	if err := ctx.SetDefaults(map[string]any{
		"request": map[string]any{"timeout": "30s", "retries": 3},
	}); err != nil {
		log.Fatalf("❌ Failed to set defaults: %v", err)
	}

	opts := source.DefaultLoadOptions()
	opts.EnvPrefix = "APP_"
	if err := ctx.LoadWithOptions(contextFilePath, []string{"--request.retries=5"}, opts); err != nil {
		log.Fatalf("❌ Failed to load context: %v", err)
	}
	data := ctx.Data()
	port, _ := ctx.Get("server.port")
	log.Printf("✅ server.port resolved from env: %v", port)

	// =========================================================================
	// PART 3: TWO-PASS RESOLUTION
	// The first pass keeps what the context cannot answer yet.
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 3: Resolving the request template in two passes...")

	template := map[string]any{
		"url":     "https://{{server.host}}:{{server.port}}/campaigns/{{campaign.id}}",
		"method":  "POST",
		"timeout": "{{request.timeout}}",
		"retries": "{{request.retries||number}}",
		"headers": map[string]any{
			"Authorization": "Bearer {{token}}",
		},
		"body": map[string]any{
			"_mapping":     "{{campaign.name}}",
			"_transformer": strings.ToUpper,
		},
	}

	firstPass := resolver.NewBuilder().WithIgnoreUndefined(true).MustBuild()
	partial, err := firstPass.Resolve(template, data)
	if err != nil {
		log.Fatalf("❌ First pass failed: %v", err)
	}
	log.Printf("   Placeholders left after first pass: %v", firstPass.Placeholders(partial))

	var req RequestConfig
	if err := resolver.NewWithDefaults().ResolveInto(partial, map[string]any{"token": "s3cr3t"}, &req); err != nil {
		log.Fatalf("❌ Second pass failed: %v", err)
	}
	log.Println("✅ Request resolved.")

	fmt.Printf("  %s %s\n", req.Method, req.URL)
	fmt.Printf("  timeout=%s retries=%d\n", req.Timeout, req.Retries)
	fmt.Printf("  Authorization: %s\n", req.Headers["Authorization"])
	fmt.Printf("  body: %s\n", req.Body)
}
