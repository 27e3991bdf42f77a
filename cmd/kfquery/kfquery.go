package main

import (
	"fmt"
	"math"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/akamensky/argparse"
	"github.com/cyclopcam/keyframes/pkg/nn"
	"github.com/cyclopcam/keyframes/pkg/query"
	"github.com/cyclopcam/keyframes/pkg/source"
	"github.com/cyclopcam/keyframes/server/config"
	"github.com/cyclopcam/logs"
	"github.com/cyclopcam/www"
)

func check(err error) {
	if err != nil {
		panic(err)
	}
}

func main() {
	parser := argparse.NewParser("kfquery", "Query a corpus of key frame detection records")
	configFile := parser.String("c", "config", &argparse.Options{Help: "Configuration file", Default: ""})
	storageType := parser.Selector("", "storage", []string{config.StorageFS, config.StorageGCS}, &argparse.Options{Help: "Storage type (overrides config)"})
	root := parser.String("", "root", &argparse.Options{Help: "Storage directory or bucket (overrides config)"})
	serverURL := parser.String("", "server", &argparse.Options{Help: "Query a running keyframes server (eg http://localhost:8080) instead of storage"})
	maxBoxes := parser.Int("m", "maxboxes", &argparse.Options{Help: "Only consider this many of the highest ranked detections per frame (default from config)", Default: -1})
	minScore := parser.Float("s", "minscore", &argparse.Options{Help: "Only consider detections with at least this score", Default: -1.0})

	classesCmd := parser.NewCommand("classes", "List the unique classes in the corpus")
	counts := classesCmd.Flag("", "counts", &argparse.Options{Help: "Include the number of frames of each class", Default: false})

	framesCmd := parser.NewCommand("frames", "List the frames that contain a class")
	class := framesCmd.String("", "class", &argparse.Options{Help: "Class entity, eg Cat", Required: true})

	err := parser.Parse(os.Args)
	if err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	logger, err := logs.NewLog()
	check(err)

	cfg := config.NewConfig()
	if *configFile != "" {
		if cfg, err = config.LoadConfig(*configFile); err != nil {
			logger.Errorf("%v", err)
			os.Exit(1)
		}
	}
	if *storageType != "" {
		cfg.Storage = *storageType
	}
	if *root != "" {
		cfg.Root = *root
	}
	if *minScore >= 0 || math.IsNaN(*minScore) {
		cfg.MinScore = float32(*minScore)
	}
	if err := cfg.Validate(); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
	params := cfg.QueryParams()
	// Zero is a legal cutoff here, unlike in the config file, where it means "unset"
	if *maxBoxes >= 0 {
		params.MaxBoxes = *maxBoxes
	}

	if *serverURL != "" {
		if err := remoteQuery(*serverURL, params, classesCmd.Happened(), *counts, *class); err != nil {
			logger.Errorf("%v", err)
			os.Exit(1)
		}
		return
	}

	store, err := cfg.OpenStorage(logger)
	if err != nil {
		logger.Errorf("Failed to open storage: %v", err)
		os.Exit(1)
	}
	corpus, err := query.LoadCorpus(source.NewStoredRecords(store, cfg.RecordsPrefix), nil)
	if err != nil {
		logger.Errorf("Failed to load corpus: %v", err)
		os.Exit(1)
	}
	logger.Infof("Loaded %v records", corpus.Len())

	if classesCmd.Happened() {
		if *counts {
			printCounts(query.ClassCounts(corpus, params))
		} else {
			printLines(query.UniqueClasses(corpus, params))
		}
	} else if framesCmd.Happened() {
		printLines(query.FramesContaining(corpus, *class))
	}
}

func remoteQuery(serverURL string, params *nn.QueryParams, classes, counts bool, class string) error {
	serverURL = strings.TrimSuffix(serverURL, "/")
	q := url.Values{}
	var path string
	if classes {
		path = "/api/classes"
		q.Set("maxBoxes", fmt.Sprintf("%v", params.MaxBoxes))
		q.Set("minScore", fmt.Sprintf("%v", params.MinScore))
		if counts {
			q.Set("counts", "1")
		}
	} else {
		path = "/api/frames"
		q.Set("class", class)
	}
	req, err := http.NewRequest("GET", serverURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	if classes && counts {
		result := []query.ClassCount{}
		if err := www.FetchJSON(req, &result); err != nil {
			return err
		}
		printCounts(result)
	} else {
		result := []string{}
		if err := www.FetchJSON(req, &result); err != nil {
			return err
		}
		printLines(result)
	}
	return nil
}

func printLines(lines []string) {
	for _, s := range lines {
		fmt.Printf("%v\n", s)
	}
}

func printCounts(counts []query.ClassCount) {
	for _, c := range counts {
		fmt.Printf("%-30v %v\n", c.ClassEntity, c.Frames)
	}
}
