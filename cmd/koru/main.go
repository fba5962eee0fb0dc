// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"context"
	"flag"
	"io/ioutil"
	"runtime"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"
	"golang.org/x/exp/mmap"

	"github.com/devblok/korugl/core"
	"github.com/devblok/korugl/demo"
	"github.com/devblok/korugl/device/opengl"
	"github.com/devblok/korugl/gfx"
	"github.com/devblok/korugl/model"
	"github.com/devblok/korugl/utility/kar"
)

func init() {
	runtime.LockOSThread()
}

var (
	envFile   = flag.String("env", ".env", "Dotenv file to load the configuration from")
	packFile  = flag.String("pack", "", "Load shaders from a kar pack instead of the embedded ones")
	modelFile = flag.String("model", "", "Collada file to add to the scene")
)

func newWindow(cfg core.RendererConfiguration) (*sdl.Window, sdl.GLContext, error) {
	for attr, value := range map[sdl.GLattr]int{
		sdl.GL_CONTEXT_MAJOR_VERSION: 4,
		sdl.GL_CONTEXT_MINOR_VERSION: 1,
		sdl.GL_CONTEXT_PROFILE_MASK:  sdl.GL_CONTEXT_PROFILE_CORE,
		sdl.GL_DOUBLEBUFFER:          1,
		sdl.GL_DEPTH_SIZE:            24,
	} {
		if err := sdl.GLSetAttribute(attr, value); err != nil {
			return nil, nil, errors.Wrap(err, "sdl.GLSetAttribute()")
		}
	}

	window, err := sdl.CreateWindow("Koru3D",
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		int32(cfg.ScreenWidth),
		int32(cfg.ScreenHeight),
		sdl.WINDOW_OPENGL|sdl.WINDOW_RESIZABLE)
	if err != nil {
		return nil, nil, errors.Wrap(err, "sdl.CreateWindow()")
	}

	glContext, err := window.GLCreateContext()
	if err != nil {
		window.Destroy()
		return nil, nil, errors.Wrap(err, "sdl.GLCreateContext()")
	}
	return window, glContext, nil
}

func loadShaders(logger *log.Logger) (map[string]string, error) {
	if *packFile == "" {
		return demo.Shaders()
	}
	r, err := mmap.Open(*packFile)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	ar, err := kar.Open(r)
	if err != nil {
		return nil, errors.Wrap(err, *packFile)
	}
	logger.WithField("pack", *packFile).WithField("files", len(ar.Names())).Info("loading shader pack")
	return demo.ShadersFrom(ar)
}

func main() {
	flag.Parse()

	configuration, err := core.LoadConfiguration(*envFile)
	if err != nil {
		log.Fatal(err)
	}
	logger := core.NewLogger(configuration.LogLevel)

	if err := run(configuration, logger); err != nil {
		logger.Fatal(err)
	}
}

func run(configuration core.Configuration, logger *log.Logger) error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return errors.Wrap(err, "sdl.Init()")
	}
	defer sdl.Quit()

	window, glContext, err := newWindow(configuration.Renderer)
	if err != nil {
		return err
	}
	defer window.Destroy()
	defer sdl.GLDeleteContext(glContext)

	driver, err := opengl.New()
	if err != nil {
		return err
	}

	ctx := core.NewContext(driver, configuration.Renderer, logger)
	caps := ctx.Caps()
	logger.WithFields(log.Fields{
		"renderer":       caps.Name,
		"version":        caps.Version,
		"textureUnits":   ctx.TextureUnitLimit(),
		"bufferBindings": ctx.BufferBindingLimit(),
	}).Info("context created")

	sources, err := loadShaders(logger)
	if err != nil {
		return err
	}
	scene, err := demo.Load(ctx, sources, configuration.Renderer.ClearColor)
	if err != nil {
		return err
	}
	defer scene.Close()

	if *modelFile != "" {
		data, err := ioutil.ReadFile(*modelFile)
		if err != nil {
			return err
		}
		obj, err := model.ImportColladaObject(data)
		if err != nil {
			return errors.Wrap(err, *modelFile)
		}
		obj.SetColor(mgl32.Vec4{0.4, 0.7, 1, 1})
		if err := scene.AddModel(obj); err != nil {
			return err
		}
		logger.WithField("model", *modelFile).WithField("vertices", len(obj.Vertices())).Info("model added")
	}

	time := core.NewTime(configuration.Time)
	defer time.Stop()

	loop, cancel := context.WithCancel(context.Background())
	defer cancel()

	err = time.Run(loop, func() error {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch et := event.(type) {
			case *sdl.KeyboardEvent:
				if et.Keysym.Sym == sdl.K_ESCAPE {
					cancel()
					return nil
				}
			case *sdl.QuitEvent:
				cancel()
				return nil
			}
		}

		width, height := window.GLGetDrawableSize()
		if err := scene.Frame(gfx.BackBuffer(int(width), int(height)), time.Frames()); err != nil {
			return err
		}
		window.GLSwap()
		return nil
	})
	if err != nil && err != context.Canceled {
		return err
	}
	logger.WithField("frames", time.Frames()).Info("event loop exited")
	return nil
}
