package mcpserver

import (
	"encoding/json"
)

const (
	manifestSchema = "https://static.modelcontextprotocol.io/schemas/2025-10-17/server.schema.json"
	serverName     = "io.github.panbanda/mccabre"
	repositoryURL  = "https://github.com/panbanda/mccabre"
	imageName      = "ghcr.io/panbanda/mccabre"
)

// Manifest is the registry entry (server.json) for the mccabre MCP server.
type Manifest struct {
	Schema      string           `json:"$schema"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Version     string           `json:"version"`
	Repository  *ManifestSource  `json:"repository,omitempty"`
	Packages    []ManifestTarget `json:"packages,omitempty"`
}

// ManifestSource points at the source repository.
type ManifestSource struct {
	URL    string `json:"url"`
	Source string `json:"source"`
}

// ManifestTarget is one installable distribution of the server.
type ManifestTarget struct {
	RegistryType         string        `json:"registryType"`
	Identifier           string        `json:"identifier"`
	Version              string        `json:"version,omitempty"`
	PackageArguments     []ManifestArg `json:"packageArguments,omitempty"`
	EnvironmentVariables []ManifestEnv `json:"environmentVariables,omitempty"`
	Transport            struct {
		Type string `json:"type"`
	} `json:"transport"`
}

// ManifestArg is a fixed argument passed to the binary.
type ManifestArg struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// ManifestEnv documents an environment variable the server reads.
type ManifestEnv struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsRequired  bool   `json:"isRequired"`
}

// GenerateManifest renders the server.json manifest for version.
func GenerateManifest(version string) ([]byte, error) {
	if version == "" || version == "dev" {
		version = "0.0.0"
	}

	image := ManifestTarget{
		RegistryType:     "oci",
		Identifier:       imageName + ":" + version,
		PackageArguments: []ManifestArg{{Type: "positional", Value: "mcp"}},
		EnvironmentVariables: []ManifestEnv{{
			Name:        "MCCABRE_CONFIG",
			Description: "Path to a mccabre.toml, YAML or JSON config with thresholds and clone settings",
		}},
	}
	image.Transport.Type = "stdio"

	return json.MarshalIndent(Manifest{
		Schema:      manifestSchema,
		Name:        serverName,
		Description: "Lines of code, cyclomatic complexity and clone detection for Rust, JavaScript, TypeScript, Go, Java and C++",
		Version:     version,
		Repository:  &ManifestSource{URL: repositoryURL, Source: "github"},
		Packages:    []ManifestTarget{image},
	}, "", "  ")
}
