package convert

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"gdc/config"
	"gdc/content"
	"gdc/state"
)

// buildOutputPath returns output directory for the document under dst. It
// uses either default naming scheme (document title, id when title is
// empty) or user-defined template. Path segments are cleaned and if
// requested transliterated.
func buildOutputPath(c *content.Content, dst string, env *state.LocalEnv) string {
	if env.Cfg.Document.OutputNameTemplate != "" {
		if expandedName := expandOutputNameTemplate(c, env); expandedName != "" {
			return assemblePathWithSubdirs(dst, expandedName, env)
		}
		// fallback to default name if template expansion failed
	}
	return filepath.Join(dst, buildDefaultDirName(c, env))
}

func buildDefaultDirName(c *content.Content, env *state.LocalEnv) string {
	name := strings.TrimSpace(c.Doc.Title)
	if name == "" {
		name = c.ID()
	}
	return cleanPathSegment(name, env)
}

func expandOutputNameTemplate(c *content.Content, env *state.LocalEnv) string {
	expandedName, err := expandTemplate(c, config.OutputNameTemplateFieldName, env.Cfg.Document.OutputNameTemplate)
	if err != nil {
		env.Log.Warn("Unable to prepare output name", zap.Error(err))
		return ""
	}
	return strings.TrimSpace(filepath.FromSlash(expandedName))
}

// assemblePathWithSubdirs takes an expanded template name (which may contain
// path separators for subdirectories) and assembles it into a full output path,
// cleaning and transliterating segments as needed
func assemblePathWithSubdirs(outDir, expandedName string, env *state.LocalEnv) string {
	pathSegments := splitAndCleanPath(expandedName)
	if len(pathSegments) == 0 {
		return outDir
	}

	dirParts := make([]string, 0, len(pathSegments)+1)
	dirParts = append(dirParts, outDir)
	for _, segment := range pathSegments {
		if segment == "." || segment == ".." {
			continue
		}
		dirParts = append(dirParts, cleanPathSegment(segment, env))
	}
	return filepath.Join(dirParts...)
}

func splitAndCleanPath(path string) []string {
	path = strings.TrimSuffix(path, string(os.PathSeparator))
	segments := make([]string, 0, 8)

	for head, tail := filepath.Split(path); tail != ""; head, tail = filepath.Split(head) {
		segments = slices.Insert(segments, 0, tail)
		head = strings.TrimRight(head, string(os.PathSeparator))
		if head == "" {
			break
		}
	}
	return segments
}

func cleanPathSegment(segment string, env *state.LocalEnv) string {
	if env.Cfg.Document.FileNameTransliterate {
		segment = slug.Make(segment)
	}
	return config.CleanFileName(segment)
}
