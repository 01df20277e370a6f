// Package config manages configuration parsing and validation for splicerc.
//
//	            +-------------+
//	            |   Config    |
//	            |   (Jobs)    |
//	            +------+------+
//	                   |
//	      +------------+------------+
//	      |            |            |
//	+-----+----+  +----+----+  +----+----+
//	|   YAML   |  |  JSON   |  |   HCL   |
//	|  Parser  |  | Parser  |  | Parser  |
//	+----------+  +---------+  +---------+
//
// 🎯 Purpose:
// - Loads a list of jobs, each splicing named blocks from one template into
//   one or more targets
// - Picks a parser by file extension through a small registry
// - Validates jobs and fills defaults (job name, locator kind)
// - Expands target globs relative to the config file
//
// 🔍 Example:
//
//	jobs:
//	  - name: audiencias
//	    template: temp_endereco_observacoes.tsx
//	    targets:
//	      - app/**/audiencias-visualizacao-semana.tsx
//	    blocks:
//	      - name: EnderecoCell
//	        function: EnderecoCell
//	        marker: "Componente para (?:exibir e )?editar endereço"
//
// Unknown fields are rejected by every parser.
package config
