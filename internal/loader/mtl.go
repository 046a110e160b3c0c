package loader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"StreetScene/internal/logger"
	"StreetScene/internal/renderer"

	"go.uber.org/zap"
)

// LoadMaterials loads material properties from a .mtl file.
func LoadMaterials(filename string) (map[string]*renderer.Material, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ParseMTL(file, filepath.Dir(filename))
}

// ParseMTL reads material definitions. Texture paths are resolved relative to dir.
func ParseMTL(r io.Reader, dir string) (map[string]*renderer.Material, error) {
	materials := make(map[string]*renderer.Material)
	var current *renderer.Material

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		if fields[0] == "newmtl" {
			if len(fields) < 2 {
				logger.Log.Warn("Malformed material line", zap.String("line", line))
				continue
			}
			mat := renderer.DefaultMaterial
			mat.Name = strings.Join(fields[1:], " ")
			current = &mat
			materials[mat.Name] = current
			continue
		}
		if current == nil {
			continue
		}

		switch fields[0] {
		case "Kd": // Diffuse color
			if c, ok := parseColor(fields[1:]); ok {
				current.DiffuseColor = c
			}
		case "Ks": // Specular color
			if c, ok := parseColor(fields[1:]); ok {
				current.SpecularColor = c
			}
		case "Ns": // Shininess
			if v, ok := parseFloat(fields[1:]); ok {
				current.Shininess = v
			}
		case "d": // Dissolve
			if v, ok := parseFloat(fields[1:]); ok {
				current.Alpha = v
			}
		case "Tr": // Transparency, inverse of dissolve
			if v, ok := parseFloat(fields[1:]); ok {
				current.Alpha = 1 - v
			}
		case "map_Kd":
			current.DiffuseMap = texturePath(dir, fields[1:])
		case "map_Ks":
			current.SpecularMap = texturePath(dir, fields[1:])
		case "map_Bump", "map_bump", "bump", "norm":
			current.NormalMap = texturePath(dir, fields[1:])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read materials: %w", err)
	}
	return materials, nil
}

// texturePath takes the file name from a map statement, skipping options
// such as "-bm 0.5", and resolves it relative to dir.
func texturePath(dir string, fields []string) string {
	if len(fields) == 0 {
		return ""
	}
	i := 0
	for i < len(fields) && strings.HasPrefix(fields[i], "-") {
		i += 1 + optionArgs(fields[i])
	}
	if i >= len(fields) {
		i = len(fields) - 1
	}
	name := cleanAssetPath(strings.Join(fields[i:], " "))
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}

// optionArgs is the number of values that follow a texture map option.
func optionArgs(opt string) int {
	switch opt {
	case "-o", "-s", "-t":
		return 3
	case "-mm":
		return 2
	}
	return 1
}

// cleanAssetPath turns Windows separators into slashes so exported assets
// resolve on every platform.
func cleanAssetPath(p string) string {
	return filepath.FromSlash(strings.ReplaceAll(p, `\`, "/"))
}

func parseColor(fields []string) ([3]float32, bool) {
	var color [3]float32
	if len(fields) < 3 {
		return color, false
	}
	for i := 0; i < 3; i++ {
		val, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			logger.Log.Warn("Error parsing color component", zap.String("value", fields[i]), zap.Error(err))
			return color, false
		}
		color[i] = float32(val)
	}
	return color, true
}

func parseFloat(fields []string) (float32, bool) {
	if len(fields) < 1 {
		return 0, false
	}
	f, err := strconv.ParseFloat(fields[0], 32)
	if err != nil {
		logger.Log.Warn("Error parsing material value", zap.String("value", fields[0]), zap.Error(err))
		return 0, false
	}
	return float32(f), true
}
