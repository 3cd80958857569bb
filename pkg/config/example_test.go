package config_test

import (
	"fmt"
	"log"

	"github.com/ajitpratap0/datatypes/pkg/config"
)

// ExampleNewConfig shows the defaults every section starts from
func ExampleNewConfig() {
	cfg := config.NewConfig()

	fmt.Printf("Log level: %s\n", cfg.Log.Level)
	fmt.Printf("Export format: %s\n", cfg.Export.Format)
	fmt.Printf("Export destination: %s\n", cfg.Export.Destination)
	fmt.Printf("Tracing enabled: %t\n", cfg.Tracing.Enabled)

	// Output:
	// Log level: info
	// Export format: parquet
	// Export destination: fixtures
	// Tracing enabled: false
}

// ExampleConfig_Validate validates a modified configuration
func ExampleConfig_Validate() {
	cfg := config.NewConfig()
	cfg.Harness.Workers = 16
	cfg.Export.Format = "avro"
	cfg.Export.Compression = "zstd"

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	fmt.Println("Configuration is valid!")

	cfg.Export.Format = "orc"
	fmt.Println(cfg.Validate() != nil)

	// Output:
	// Configuration is valid!
	// true
}
