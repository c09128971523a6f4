package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"maritime-watch/internal/fishersimd"
)

func main() {
	var err error
	var configFile string
	var config fishersimd.Config

	rootCmd := &cobra.Command{
		Use:   "fishersimd",
		Short: "Fisherman daemon: register vessels and track them into the shared mirror",
		// Main Entry Point
		Run: func(c *cobra.Command, args []string) {
			// Init
			rcvr, err := fishersimd.New(config)
			if err != nil {
				log.Fatalf("Failed on init: %v", err)
			}

			err = rcvr.Run()
			if err != nil {
				log.Fatalf("Failed on start: %v", err)
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config.json", "Path to configuration")

	// Default Values
	viper.SetDefault("mirror.path", "vessels.json")
	viper.SetDefault("location.interval_ms", 1000)
	viper.SetDefault("location.speed_ms", 4.5)
	viper.SetDefault("remote.driver", "none")
	viper.SetDefault("remote.writes_per_sec", 20)
	viper.SetDefault("remote.burst", 40)

	// Read Configuration File Before Start
	cobra.OnInitialize(func() {
		_ = godotenv.Load()

		_, err := os.Stat(configFile)
		if os.IsNotExist(err) {
			envConfFile := os.Getenv("CONFIG_FILE")
			if envConfFile != "" {
				_, err := os.Stat(envConfFile)
				if os.IsNotExist(err) {
					log.Fatalf("Config file %s does not exist!", envConfFile)
				}

				configFile = envConfFile
			} else {
				log.Fatalf("Config file %s does not exist!", configFile)
			}
		}

		viper.SetConfigFile(configFile)
		viper.SetConfigType("json")
		err = viper.ReadInConfig()
		if err != nil {
			log.Fatalf("Failed to read config: %v", err)
		}

		err = viper.Unmarshal(&config)
		if err != nil {
			log.Fatalf("Failed to parse config: %v", err)
		}

		log.Printf("Loaded config file: %s", configFile)
	})

	// Launch (cobra.OnInitialize -> rootCmd.Run)
	err = rootCmd.Execute()
	if err != nil {
		log.Fatal(err)
	}
}
