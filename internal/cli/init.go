package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"gopkg.in/yaml.v3"

	"github.com/ma3ke/mu/internal/errors"
	"github.com/ma3ke/mu/internal/gather"
)

// muConfig is the shape of .mu.yaml.
type muConfig struct {
	Data     string `yaml:"data"`
	Roster   string `yaml:"roster,omitempty"`
	Sampler  string `yaml:"sampler,omitempty"`
	ShowRoom bool   `yaml:"show_room"`
}

// initCommand creates .mu.yaml in the current directory, prompting for
// the paths the other commands need.
func initCommand(force bool) error {
	configPath := filepath.Join(".", ConfigFileName)

	if _, err := os.Stat(configPath); err == nil && !force {
		var overwrite bool
		form := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("'%s' already exists. Overwrite?", ConfigFileName)).
				Value(&overwrite),
		))
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Couldn't read your answer",
				"Run again with --force to overwrite without asking.")
		}
		if !overwrite {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	cfg := muConfig{
		Data:    DefaultDataPath,
		Sampler: gather.DefaultSamplerCmd,
	}
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Snapshot path").
				Description("Where the gatherer writes and the viewers read the fleet snapshot").
				Value(&cfg.Data).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("a snapshot path is required")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Roster path").
				Description("The machine list used by 'mu gather' (leave empty to pass --roster each time)").
				Placeholder("machines").
				Value(&cfg.Roster),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Sampler command").
				Description("How the gatherer invokes the sampler on each machine").
				Value(&cfg.Sampler),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Show the room column in the monitor by default?").
				Value(&cfg.ShowRoom),
		),
	)
	if err := form.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't read your answers", "")
	}

	if err := writeConfig(configPath, cfg); err != nil {
		return err
	}
	return writeStarterFiles(cfg)
}

// starterRoster seeds a new roster file with the format documented.
const starterRoster = `# One machine per line under its [room] header:
#   hostname: owner note
# The note may end in "(Student)" or "(Visitor)", or be the literal
# "Reservation Required". Anything after a # is a comment.

[lab]
# m1: Ann (Student)
# m2:
`

// starterPolicy seeds a sampler policy file with the keywords documented.
const starterPolicy = `# Sampler filter policy.
#   ignore-user: <name>
#   ignore-proc: <name>
#   rename-proc: <from> -> <to>

# ignore-user: root
# rename-proc: python3.11 -> python
`

// writeStarterFiles seeds the roster (and a policy next to it) when the
// configured roster path doesn't exist yet. Existing files are left
// alone.
func writeStarterFiles(cfg muConfig) error {
	if cfg.Roster == "" {
		return nil
	}
	if _, err := os.Stat(cfg.Roster); err == nil {
		return nil
	}

	var seed bool
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(fmt.Sprintf("'%s' doesn't exist. Create a starter roster and policy?", cfg.Roster)).
			Value(&seed),
	))
	if err := form.Run(); err != nil || !seed {
		return nil
	}

	if err := os.WriteFile(cfg.Roster, []byte(starterRoster), 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Can't write %s", cfg.Roster), "")
	}
	fmt.Printf("Wrote %s.\n", cfg.Roster)

	policyPath := filepath.Join(filepath.Dir(cfg.Roster), "policy")
	if _, err := os.Stat(policyPath); err == nil {
		return nil
	}
	if err := os.WriteFile(policyPath, []byte(starterPolicy), 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Can't write %s", policyPath), "")
	}
	fmt.Printf("Wrote %s.\n", policyPath)
	return nil
}

func writeConfig(path string, cfg muConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Config doesn't serialize", "")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Can't write %s", path),
			"Check the directory is writable.")
	}
	fmt.Printf("Wrote %s.\n", path)
	return nil
}
