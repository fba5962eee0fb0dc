// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io/ioutil"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/devblok/korugl/core"
	"github.com/devblok/korugl/demo"
	"github.com/devblok/korugl/device"
	"github.com/devblok/korugl/device/headless"
	"github.com/devblok/korugl/gfx"
	"github.com/devblok/korugl/model"
)

var (
	frames    = flag.Int("frames", 1, "Number of frames to render")
	calls     = flag.Bool("calls", false, "Print every driver call instead of the draws")
	modelFile = flag.String("model", "", "Collada file to add to the scene")
)

// report is what korucli prints.
type report struct {
	Caps   device.Caps         `json:"caps"`
	Frames int                 `json:"frames"`
	Draws  []headless.DrawCall `json:"draws,omitempty"`
	Calls  []headless.Call     `json:"calls,omitempty"`
	Final  headless.State      `json:"state"`
}

func main() {
	flag.Parse()

	configuration, err := core.LoadConfiguration(".env")
	if err != nil {
		log.Fatal(err)
	}
	logger := core.NewLogger(configuration.LogLevel)

	driver := headless.New()
	ctx := core.NewContext(driver, configuration.Renderer, logger)

	sources, err := demo.Shaders()
	if err != nil {
		logger.Fatal(err)
	}
	scene, err := demo.Load(ctx, sources, configuration.Renderer.ClearColor)
	if err != nil {
		logger.Fatal(err)
	}
	defer scene.Close()
	if *modelFile != "" {
		obj, err := loadModel(*modelFile)
		if err != nil {
			logger.Fatal(err)
		}
		if err := scene.AddModel(obj); err != nil {
			logger.Fatal(err)
		}
	}
	driver.Reset()

	fb := gfx.BackBuffer(int(configuration.Renderer.ScreenWidth), int(configuration.Renderer.ScreenHeight))
	for frame := 0; frame < *frames; frame++ {
		if err := scene.Frame(fb, uint64(frame)); err != nil {
			logger.Fatal(err)
		}
	}

	out := report{
		Caps:   driver.Caps(),
		Frames: *frames,
		Final:  driver.State(),
	}
	if *calls {
		out.Calls = driver.Calls()
	} else {
		out.Draws = driver.Draws()
	}

	bytes, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		logger.Fatal(err)
	}
	fmt.Fprintf(os.Stdout, "%s\n", bytes)
}

func loadModel(path string) (*model.Object, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return model.ImportColladaObject(data)
}
