package config

import (
	"github.com/m-mizutani/gemhook/pkg/domain/interfaces"
	"github.com/m-mizutani/gemhook/pkg/infra/builder"
	"github.com/m-mizutani/gemhook/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// Build holds build execution configuration
type Build struct {
	Script         string
	SearchPath     []string
	WorkspaceBase  string
	StageObjects   []string
	KeepWorkspace  bool
	LogURLTemplate string
	GemSourceURL   string
}

// Flags returns CLI flags for build configuration
func (c *Build) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "build-script",
			Usage:       "Build program run for every tag",
			Value:       "./build-gem.sh",
			Destination: &c.Script,
			Sources:     cli.EnvVars("GEMHOOK_BUILD_SCRIPT"),
		},
		&cli.StringSliceFlag{
			Name:        "build-path",
			Usage:       "Extra directories appended to PATH of the build program",
			Destination: &c.SearchPath,
			Sources:     cli.EnvVars("GEMHOOK_BUILD_PATH"),
		},
		&cli.StringFlag{
			Name:        "workspace-base",
			Usage:       "Directory under which per-run workspaces are created (default: system temp dir)",
			Destination: &c.WorkspaceBase,
			Sources:     cli.EnvVars("GEMHOOK_WORKSPACE_BASE"),
		},
		&cli.StringSliceFlag{
			Name:        "stage-object",
			Usage:       "Bucket object fetched into the workspace before the build (repeatable)",
			Value:       usecase.DefaultStageObjects,
			Destination: &c.StageObjects,
			Sources:     cli.EnvVars("GEMHOOK_STAGE_OBJECTS"),
		},
		&cli.BoolFlag{
			Name:        "keep-workspace",
			Usage:       "Do not remove the workspace after the run",
			Destination: &c.KeepWorkspace,
			Sources:     cli.EnvVars("GEMHOOK_KEEP_WORKSPACE"),
		},
		&cli.StringFlag{
			Name:        "log-url-template",
			Usage:       "Log link attached to build failure reports; {run_id} is replaced",
			Value:       usecase.DefaultLogURLTemplate,
			Destination: &c.LogURLTemplate,
			Sources:     cli.EnvVars("GEMHOOK_LOG_URL_TEMPLATE"),
		},
		&cli.StringFlag{
			Name:        "gem-source-url",
			Usage:       "Gem source URL shown in notifications (default: http://<bucket>)",
			Destination: &c.GemSourceURL,
			Sources:     cli.EnvVars("GEMHOOK_GEM_SOURCE_URL"),
		},
	}
}

// PipelineOptions returns the pipeline options for this configuration
func (c *Build) PipelineOptions() []usecase.PipelineOption {
	return []usecase.PipelineOption{
		usecase.WithStageObjects(c.StageObjects),
		usecase.WithWorkspaceBase(c.WorkspaceBase),
		usecase.WithKeepWorkspace(c.KeepWorkspace),
		usecase.WithLogURLTemplate(c.LogURLTemplate),
		usecase.WithGemSourceURL(c.GemSourceURL),
	}
}

// NewBuilder creates the build program runner
func (c *Build) NewBuilder() interfaces.Builder {
	return builder.NewScript(c.Script, c.SearchPath...)
}
