package config

// Default returns the canonical runtime configuration used when no file is
// present. Ports and timeouts match what the editor-side plugin expects.
func Default() Config {
	return Config{
		Godot: GodotConfig{
			Host:           "localhost",
			Port:           6400,
			TimeoutSeconds: 300,
		},
		Receiver: ReceiverConfig{
			Bind:                  "localhost:6400",
			CommandTimeoutSeconds: 0,
		},
		Server: ServerConfig{
			Transport: "stdio",
			HTTPBind:  "localhost:6500",
		},
		Meshy: MeshyConfig{
			BaseURL:                "https://api.meshy.ai/openapi",
			TimeoutSeconds:         300,
			DownloadTimeoutSeconds: 60,
		},
		Assets: AssetsConfig{
			ImportPath: "res://assets/generated_meshes/",
		},
		Log: LogConfig{Level: "info"},
	}
}
