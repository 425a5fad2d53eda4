package config

const (
	defaultProjectsDir = "~/projects"
	defaultPublishDir  = "~/projects"
	defaultStateDir    = "~/.local/share/easel"
	defaultLogDir      = "~/.local/share/easel/logs"
	defaultMenuName    = "Pipeline"
	defaultUserDocsDir = "~/Documents/Adobe/Adobe Substance 3D Painter"
	defaultLogFormat   = "console"
	defaultLogLevel    = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ProjectsDir: defaultProjectsDir,
			PublishDir:  defaultPublishDir,
			StateDir:    defaultStateDir,
			LogDir:      defaultLogDir,
		},
		Menu: Menu{
			Name:                   defaultMenuName,
			AutomaticContextSwitch: true,
		},
		Templates: map[string]string{
			TemplateWorkArea:          "{project}/assets/{entity}/{task}/work/painter",
			TemplateTextureExportArea: "{project}/assets/{entity}/{task}/work/painter/export",
			TemplateTexturePublish:    "{project}/assets/{entity}/{task}/publish/textures/{texture_set}/v{version:03}/{texture_set}_{texture_map}_{colorspace}.{extension}",
			TemplateTextureUDIM:       "{project}/assets/{entity}/{task}/publish/textures/{texture_set}/v{version:03}/{texture_set}_{texture_map}_{colorspace}[.{UDIM:04}].{extension}",
			TemplateTextureSetFolder:  "{project}/assets/{entity}/{task}/publish/textures/{texture_set}/v{version:03}",
			TemplateProjectPublish:    "{project}/assets/{entity}/{task}/publish/painter/{entity}_{task}_v{version:03}.spp",
		},
		Host: Host{
			UserDocsDir: defaultUserDocsDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
