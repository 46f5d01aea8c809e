package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize restlab with default configuration and directory structure",
	Long: `Creates the default configuration file (config.yaml) and data directory structure.

This command will:
  - Create config.yaml with default settings
  - Create data/ directory for file storage
  - Create a sample collection file (sample-collection.yaml)

If config.yaml already exists, it will not be overwritten unless --force is used.`,
	RunE: runInit,
}

var (
	initForce bool
	initPath  string
)

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite existing config file")
	initCmd.Flags().StringVarP(&initPath, "path", "p", ".", "Path where to initialize (default: current directory)")
}

func runInit(cmd *cobra.Command, args []string) error {
	// Resolve path to absolute
	absPath, err := filepath.Abs(initPath)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	configFile := filepath.Join(absPath, "config.yaml")
	dataDir := filepath.Join(absPath, "data")

	// Check if config already exists
	if _, err := os.Stat(configFile); err == nil && !initForce {
		return fmt.Errorf("config.yaml already exists. Use --force to overwrite")
	}

	// Create directory structure
	dirs := []string{
		dataDir,
		filepath.Join(dataDir, "environments"),
		filepath.Join(dataDir, "collections"),
		filepath.Join(dataDir, "requests"),
		filepath.Join(dataDir, "mockservers"),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		fmt.Printf("Created directory: %s\n", dir)
	}

	// Create default config
	config := map[string]interface{}{
		"server": map[string]interface{}{
			"port":      8080,
			"host":      "0.0.0.0",
			"mockMount": "/mock",
		},
		"storage": map[string]interface{}{
			"type": "file",
			"path": "./data",
		},
		"history": map[string]interface{}{
			"maxResults": 1000,
		},
		"identity": map[string]interface{}{
			"secret":   "",
			"required": false,
		},
		"logging": map[string]interface{}{
			"level":  "info",
			"format": "json",
		},
	}

	// Marshal to YAML
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to generate config: %w", err)
	}

	// Add header comment
	header := `# RestLab Configuration

`
	configData := []byte(header + string(data))

	// Write config file
	if err := os.WriteFile(configFile, configData, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	fmt.Printf("Created config file: %s\n", configFile)

	// Write a sample collection runnable with `restlab run`
	sampleFile := filepath.Join(absPath, "sample-collection.yaml")
	if _, err := os.Stat(sampleFile); os.IsNotExist(err) || initForce {
		if err := os.WriteFile(sampleFile, []byte(sampleCollection), 0644); err != nil {
			return fmt.Errorf("failed to write sample collection: %w", err)
		}
		fmt.Printf("Created sample collection: %s\n", sampleFile)
	}

	fmt.Println()
	fmt.Println("Initialization complete! You can now start the server with:")
	fmt.Println()
	fmt.Printf("  cd %s\n", absPath)
	fmt.Println("  restlab serve")
	fmt.Println()
	fmt.Println("Or run the sample collection with:")
	fmt.Println()
	fmt.Println("  restlab run sample-collection.yaml")
	fmt.Println()

	return nil
}

const sampleCollection = `name: Sample smoke tests
variables:
  apiHost: https://httpbin.org
requests:
  - name: Get JSON
    method: GET
    url: "{{apiHost}}/json"
    assertions:
      - name: responds 200
        target: status
        comparator: equals
        expected: "200"
      - name: has a title
        target: body-path
        key: slideshow.title
        comparator: defined
  - name: Echo headers
    method: GET
    url: "{{apiHost}}/headers"
    headers:
      X-Demo: "{{apiHost}}"
    assertions:
      - name: responds 200
        target: status
        comparator: equals
        expected: "200"
`
