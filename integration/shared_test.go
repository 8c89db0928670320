//go:build basic || database

// Package integration contains end-to-end tests for the incentive binary.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
// With containers:    go test -tags database ./integration
package integration

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	// sharedBinaryPath holds the path to an incentive binary built once for all tests.
	sharedBinaryPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getIncentiveBinary returns the path to the incentive binary, building it once if needed.
func getIncentiveBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "incentive-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		binaryPath := filepath.Join(tempDir, "incentive")
		buildCmd := exec.Command("go", "build", "-o", binaryPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if out, err := buildCmd.CombinedOutput(); err != nil {
			panic(fmt.Sprintf("failed to build incentive: %v\n%s", err, out))
		}

		sharedBinaryPath = binaryPath
	})

	return sharedBinaryPath
}

// writeWorkbook exports a two-day March network as tab files under a new
// directory. LRJ01 runs 30 routes against a gate of 20 and LRJ02 runs 10.
func writeWorkbook(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	var ops []map[string]any
	addRoutes := func(base, date string, n int) {
		for i := range n {
			ops = append(ops, map[string]any{
				"Date":      date,
				"Motorista": fmt.Sprintf("driver %d", i),
				"Bases":     base,
				"AT":        fmt.Sprintf("%s-%s-%d", base, date, i),
				"Remessas":  10,
				"Entregues": 10,
				"Pendentes": 0,
			})
		}
	}
	addRoutes("LRJ01", "2024-03-01", 15)
	addRoutes("LRJ01", "2024-03-02", 15)
	addRoutes("LRJ02", "2024-03-01", 10)

	tabs := map[string]any{
		"Base_Rotas_2026": ops,
		"Lista de Bases": []map[string]any{
			{"BASES": "LRJ01", "LÍDER ATUAL": "Carlos Mendes", "COORDENADOR": "Ana Souza", "LOCALIDADE": "Rio de Janeiro"},
			{"BASES": "LRJ02", "LÍDER ATUAL": "Roberta Lima", "COORDENADOR": "Ana Souza", "LOCALIDADE": "Niterói"},
		},
		"Metas": []map[string]any{
			{"BASES": "LRJ01", "PERÍODO": "Março", "TIPO_META": 1, "VALOR_META_DIA": 10, "VALOR_PREMIO": 500},
			{"BASES": "LRJ02", "PERÍODO": "Março", "TIPO_META": 1, "VALOR_META_DIA": 10, "VALOR_PREMIO": 500},
		},
		"Banco_Virtual": []map[string]any{
			{"BASE": "LRJ01", "LÍDER": "Carlos Mendes", "SALDO_ACUMULADO": 1000},
		},
		"QLP":                []map[string]any{},
		"Respostas":          []map[string]any{},
		"Metas_DS":           []map[string]any{},
		"Metas_Captacao":     []map[string]any{},
		"Metas_Perdas":       []map[string]any{},
		"Metas_Protagonismo": []map[string]any{},
		"PNR":                []map[string]any{},
	}
	for name, rows := range tabs {
		data, err := json.Marshal(rows)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name+".json"), data, 0o644))
	}
	return dir
}

// runIncentive runs the binary from the project root and returns its stdout.
func runIncentive(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getIncentiveBinary(), args...)
	cmd.Dir = "../" // Run from project root
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		t.Logf("Command failed: %s\nStdout: %s\nStderr: %s", cmd.String(), stdout.String(), stderr.String())
		return stdout.String(), err
	}
	return stdout.String(), nil
}
