package main

import (
	"fmt"
	"strconv"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"tripbuilder/internal/config"
)

func newInitCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively write the database config file",
		Long: `Prompt for connection parameters and write them to the YAML config
file. Environment variables still override the file at runtime.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := promptDatabase()
			if err != nil {
				return err
			}

			if err := config.Save(configPath, *db); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", configPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", config.DefaultConfigPath, "config file to write")
	return cmd
}

func promptDatabase() (*config.Database, error) {
	var driver string
	err := survey.AskOne(&survey.Select{
		Message: "Database backend:",
		Options: []string{"postgres", "sqlite"},
		Default: "postgres",
	}, &driver)
	if err != nil {
		return nil, err
	}

	if driver == "sqlite" {
		var path string
		err := survey.AskOne(&survey.Input{
			Message: "Database file path:",
			Default: "trips.db",
		}, &path, survey.WithValidator(survey.Required))
		if err != nil {
			return nil, err
		}
		return &config.Database{Driver: "sqlite", Name: path}, nil
	}

	questions := []*survey.Question{
		{
			Name:     "host",
			Prompt:   &survey.Input{Message: "Host:", Default: "localhost"},
			Validate: survey.Required,
		},
		{
			Name:   "port",
			Prompt: &survey.Input{Message: "Port:", Default: "5432"},
			Validate: func(ans interface{}) error {
				s, _ := ans.(string)
				if _, err := strconv.Atoi(s); err != nil {
					return fmt.Errorf("port must be an integer")
				}
				return nil
			},
		},
		{
			Name:     "dbname",
			Prompt:   &survey.Input{Message: "Database name:"},
			Validate: survey.Required,
		},
		{
			Name:     "user",
			Prompt:   &survey.Input{Message: "User:"},
			Validate: survey.Required,
		},
		{
			Name:     "password",
			Prompt:   &survey.Password{Message: "Password:"},
			Validate: survey.Required,
		},
	}

	answers := struct {
		Host     string
		Port     string
		Dbname   string
		User     string
		Password string
	}{}
	if err := survey.Ask(questions, &answers); err != nil {
		return nil, err
	}

	port, err := strconv.Atoi(answers.Port)
	if err != nil {
		return nil, fmt.Errorf("invalid port %q", answers.Port)
	}

	return &config.Database{
		Driver:   "postgres",
		Host:     answers.Host,
		Port:     port,
		Name:     answers.Dbname,
		User:     answers.User,
		Password: answers.Password,
	}, nil
}
