// Package config holds the server's runtime settings. Values come from
// flags and HFF_-prefixed environment variables wired up in cmd/server.
package config

type Config struct {
	Bind        string
	Port        int
	DataDir     string
	RoundsTotal int
	MaxPlayers  int
	TargetTurns int
	ExportFile  string
	Verbose     bool
}

func Default() Config {
	return Config{
		Bind:        "0.0.0.0",
		Port:        8080,
		DataDir:     "data",
		RoundsTotal: 10,
		MaxPlayers:  8,
		TargetTurns: 10,
	}
}
