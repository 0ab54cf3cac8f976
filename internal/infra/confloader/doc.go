// Package confloader provides the layered configuration loader.
//
// It wraps koanf and merges sources in priority order (later wins):
//
//  1. Defaults (LoadMap / WithDefaults)
//  2. YAML configuration file
//  3. Environment variables (FAMCHECK_ prefix)
//  4. Command-line flags (LoadMap after Load)
package confloader
