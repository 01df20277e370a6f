package config_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/walteh/splicerc/pkg/config"
)

func ExampleLoad() {
	ctx := context.Background()

	dir, err := os.MkdirTemp("", "splicerc-example")
	if err != nil {
		fmt.Printf("Error creating dir: %v\n", err)
		return
	}
	defer os.RemoveAll(dir)

	configYAML := `
jobs:
  - name: audiencias
    template: temp_endereco_observacoes.tsx
    targets:
      - app/audiencias-visualizacao-semana.tsx
    blocks:
      - name: EnderecoCell
        function: EnderecoCell
        marker: "editar endereço"
      - name: ObservacoesCell
        function: ObservacoesCell
        marker: "editar observações"
`
	configPath := filepath.Join(dir, ".splicerc.yaml")
	if err := os.WriteFile(configPath, []byte(configYAML), 0o644); err != nil {
		fmt.Printf("Error writing config: %v\n", err)
		return
	}

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		return
	}

	for _, job := range cfg.Jobs {
		fmt.Println(job)
		for _, rule := range job.Rules() {
			fmt.Printf("  %s (%s)\n", rule.Name, rule.Marker)
		}
	}
	// Output:
	// audiencias: temp_endereco_observacoes.tsx -> app/audiencias-visualizacao-semana.tsx (2 blocks)
	//   EnderecoCell (editar endereço)
	//   ObservacoesCell (editar observações)
}

func ExampleDefault() {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Error validating config: %v\n", err)
		return
	}

	job := cfg.Jobs[0]
	fmt.Println(job.Name, job.Locator)
	fmt.Println(job.Template)
	// Output:
	// audiencias regex
	// temp_endereco_observacoes.tsx
}
