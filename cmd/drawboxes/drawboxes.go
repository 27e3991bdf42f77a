package main

import (
	"fmt"
	"math"
	"os"

	"github.com/akamensky/argparse"
	"github.com/bmharper/cimg/v2"
	"github.com/cyclopcam/keyframes/pkg/nn"
	"github.com/cyclopcam/keyframes/pkg/overlay"
	"github.com/cyclopcam/keyframes/pkg/present"
	"github.com/cyclopcam/keyframes/pkg/source"
	"github.com/cyclopcam/logs"
)

func check(err error) {
	if err != nil {
		panic(err)
	}
}

func main() {
	parser := argparse.NewParser("drawboxes", "Draw the detection boxes of a record onto its key frame")
	recordFile := parser.String("r", "record", &argparse.Options{Help: "Detection record (JSON)", Required: true})
	imageFile := parser.String("i", "image", &argparse.Options{Help: "Key frame image (JPEG or PNG)", Required: true})
	output := parser.String("o", "output", &argparse.Options{Help: "Output image file (.png or .jpg)", Default: "my.png"})
	maxBoxes := parser.Int("m", "maxboxes", &argparse.Options{Help: "Draw at most this many of the highest ranked boxes", Default: nn.DefaultMaxBoxes})
	minScore := parser.Float("s", "minscore", &argparse.Options{Help: "Skip boxes with a score below this", Default: nn.DefaultMinScore})
	fontFile := parser.String("", "font", &argparse.Options{Help: "TrueType font for labels", Default: overlay.DefaultFontPath})
	fontSize := parser.Float("", "fontsize", &argparse.Options{Help: "Label font size", Default: float64(overlay.DefaultFontSize)})
	show := parser.Flag("", "show", &argparse.Options{Help: "Open the result in the desktop image viewer", Default: false})
	err := parser.Parse(os.Args)
	if err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	logger, err := logs.NewLog()
	check(err)

	rec, err := nn.LoadRecordFile(*recordFile)
	if err != nil {
		logger.Errorf("Failed to load record %v: %v", *recordFile, err)
		os.Exit(1)
	}

	img, err := cimg.ReadFile(*imageFile)
	if err != nil {
		logger.Errorf("Failed to load image %v: %v", *imageFile, err)
		os.Exit(1)
	}
	img = source.ToRGB(img)

	fmt.Printf("%v\n", rec.Scores)

	if math.IsNaN(*minScore) || *minScore < 0 || *minScore > 1 {
		logger.Errorf("minscore must be between 0 and 1 (not %v)", *minScore)
		os.Exit(1)
	}
	params := &nn.QueryParams{
		MaxBoxes: *maxBoxes,
		MinScore: float32(*minScore),
	}
	renderer := overlay.NewRenderer(logger, *fontFile, *fontSize)
	img, err = renderer.DrawBoxes(img, rec, params)
	check(err)

	if err := present.SaveImage(img, *output); err != nil {
		logger.Errorf("Failed to save %v: %v", *output, err)
		os.Exit(1)
	}
	logger.Infof("Saved %v", *output)

	if *show {
		if err := present.Show(*output); err != nil {
			logger.Warnf("Failed to show %v: %v", *output, err)
		}
	}
}
