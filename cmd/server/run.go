package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rsharma/restlab/internal/env"
	"github.com/rsharma/restlab/internal/executor"
	"github.com/rsharma/restlab/internal/mock"
	"github.com/rsharma/restlab/internal/models"
	"github.com/rsharma/restlab/internal/storage"
)

var runCmd = &cobra.Command{
	Use:   "run <collection.yaml>",
	Short: "Execute a collection file and report assertion results",
	Long: `Runs every request of a YAML collection file against live endpoints.

The file declares variables and a list of requests:

  name: Smoke tests
  variables:
    apiHost: https://api.example.com
  requests:
    - name: List users
      method: GET
      url: "{{apiHost}}/users"
      assertions:
        - name: ok
          target: status
          comparator: equals
          expected: "200"

Exits with status 1 when any request fails.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

// collectionFile is the YAML shape of a runnable collection.
type collectionFile struct {
	Name      string            `yaml:"name"`
	Variables map[string]string `yaml:"variables"`
	Requests  []requestEntry    `yaml:"requests"`
}

type requestEntry struct {
	Name       string            `yaml:"name"`
	Method     string            `yaml:"method"`
	URL        string            `yaml:"url"`
	Headers    map[string]string `yaml:"headers"`
	Body       string            `yaml:"body"`
	Auth       *authEntry        `yaml:"auth"`
	Assertions []assertionEntry  `yaml:"assertions"`
}

type authEntry struct {
	Type        string `yaml:"type"`
	Key         string `yaml:"key"`
	Value       string `yaml:"value"`
	Placement   string `yaml:"placement"`
	HeaderName  string `yaml:"headerName"`
	Token       string `yaml:"token"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	AccessToken string `yaml:"accessToken"`
	TokenType   string `yaml:"tokenType"`
}

type assertionEntry struct {
	Name       string `yaml:"name"`
	Target     string `yaml:"target"`
	Key        string `yaml:"key"`
	Comparator string `yaml:"comparator"`
	Expected   string `yaml:"expected"`
}

func runRun(cmd *cobra.Command, args []string) error {
	content, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read collection file: %w", err)
	}

	var file collectionFile
	if err := yaml.Unmarshal(content, &file); err != nil {
		return fmt.Errorf("failed to parse collection file: %w", err)
	}
	if len(file.Requests) == 0 {
		return fmt.Errorf("collection file has no requests")
	}

	// An in-memory world is enough for a one-shot run. The file's
	// variables become the scope's active environment.
	store := storage.NewMemoryStorage()
	envs := env.NewManager(store)
	scope := models.Scope{UserID: "cli"}

	if len(file.Variables) > 0 {
		if _, err := envs.Create(models.EnvironmentInput{
			Name:      file.Name,
			Variables: file.Variables,
		}, scope); err != nil {
			return fmt.Errorf("failed to register variables: %w", err)
		}
	}

	exec := executor.New(envs, mock.NewRouter(store), nil, nil)

	reqs := make([]*models.RequestTemplate, 0, len(file.Requests))
	for _, entry := range file.Requests {
		reqs = append(reqs, entry.toTemplate())
	}

	results := exec.ExecuteBatch(context.Background(), reqs, scope)

	failed := 0
	for _, result := range results {
		status := "PASS"
		if !result.Passed {
			status = "FAIL"
			failed++
		}
		fmt.Printf("%-4s  %-30s  %d %s  %dms\n",
			status, result.Name, result.Status, result.StatusText, result.ResponseTime)
		for _, a := range result.Assertions {
			mark := "ok"
			if !a.Passed {
				mark = "FAILED"
			}
			fmt.Printf("      - %s: %s (expected %q, got %q)\n", a.Name, mark, a.Expected, a.Actual)
		}
		if result.Error != "" {
			fmt.Printf("      error: %s\n", result.Error)
		}
	}

	fmt.Printf("\n%d passed, %d failed\n", len(results)-failed, failed)
	if failed > 0 {
		os.Exit(1)
	}
	return nil
}

func (e *requestEntry) toTemplate() *models.RequestTemplate {
	req := &models.RequestTemplate{
		Name:    e.Name,
		Method:  e.Method,
		URL:     e.URL,
		Headers: e.Headers,
		Body:    e.Body,
	}
	if e.Auth != nil {
		req.Auth = &models.AuthConfig{
			Type:        models.AuthType(e.Auth.Type),
			Key:         e.Auth.Key,
			Value:       e.Auth.Value,
			Placement:   e.Auth.Placement,
			HeaderName:  e.Auth.HeaderName,
			Token:       e.Auth.Token,
			Username:    e.Auth.Username,
			Password:    e.Auth.Password,
			AccessToken: e.Auth.AccessToken,
			TokenType:   e.Auth.TokenType,
		}
	}
	for _, a := range e.Assertions {
		req.Assertions = append(req.Assertions, models.AssertionSpec{
			Name:       a.Name,
			Target:     a.Target,
			Key:        a.Key,
			Comparator: a.Comparator,
			Expected:   a.Expected,
		})
	}
	return req
}
