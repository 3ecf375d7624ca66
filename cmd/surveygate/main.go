package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmfield/surveygate"
	"github.com/jmfield/surveygate/campaign"
	"github.com/jmfield/surveygate/i18n"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "check":
		checkCmd(os.Args[2:])
	case "validate":
		validateCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `surveygate CLI

Usage:
  surveygate check -campaign def.json
  surveygate validate -campaign def.json [-lang en|ja] upload.json [...]

check loads a campaign definition (JSON or YAML by extension) and reports
authoring defects. validate checks each upload file against the campaign.`)
}

func loadCampaign(path string) (*campaign.Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if ext := strings.ToLower(filepath.Ext(path)); ext == ".yaml" || ext == ".yml" {
		return campaign.LoadYAML(data)
	}
	return campaign.LoadJSON(data)
}

func checkCmd(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	var def string
	fs.StringVar(&def, "campaign", "", "campaign definition file (.json/.yaml)")
	_ = fs.Parse(args)
	if def == "" {
		fs.Usage()
		os.Exit(2)
	}
	cfg, err := loadCampaign(def)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("%s: ok (%d surveys)\n", cfg.URN(), len(cfg.Surveys()))
}

func validateCmd(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	var def, lang string
	fs.StringVar(&def, "campaign", "", "campaign definition file (.json/.yaml)")
	fs.StringVar(&lang, "lang", "en", "message language for rejection hints")
	_ = fs.Parse(args)
	if def == "" || fs.NArg() == 0 {
		fs.Usage()
		os.Exit(2)
	}
	i18n.SetLanguage(lang)
	cfg, err := loadCampaign(def)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	eng, err := surveygate.New(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	exit := 0
	for _, path := range fs.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			exit = 1
			continue
		}
		res, err := eng.Validate(context.Background(), data)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			exit = 1
			continue
		}
		if res.Accepted() {
			fmt.Printf("%s: accepted\n", path)
			continue
		}
		iss := res.Rejection()
		fmt.Printf("%s: rejected: %s at %s: %s (%s)\n", path, iss.Code, iss.Path, iss.Message, iss.Hint)
		exit = 1
	}
	os.Exit(exit)
}
