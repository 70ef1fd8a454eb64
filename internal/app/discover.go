package app

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	logFilePattern    = "u_ex*.log"
	seriesFilePattern = "u_ex*.json"
	seriesFileExt     = ".json"
)

// newestLogFile picks the IIS log whose name sorts last. IIS names daily logs
// u_exYYMMDD.log, so that is also the most recent day.
func newestLogFile(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, logFilePattern))
	if err != nil {
		return "", err
	}
	files := regularFiles(matches)
	if len(files) == 0 {
		return "", fmt.Errorf("no %s file in %s", logFilePattern, dir)
	}
	sort.Strings(files)
	return files[len(files)-1], nil
}

// newestSeriesFile picks the most recently written parsed series.
func newestSeriesFile(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, seriesFilePattern))
	if err != nil {
		return "", err
	}

	newest := ""
	var newestInfo os.FileInfo
	for _, path := range regularFiles(matches) {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if newestInfo == nil || info.ModTime().After(newestInfo.ModTime()) ||
			(info.ModTime().Equal(newestInfo.ModTime()) && path > newest) {
			newest, newestInfo = path, info
		}
	}
	if newest == "" {
		return "", fmt.Errorf("no %s file in %s", seriesFilePattern, dir)
	}
	return newest, nil
}

// seriesPathFor is where a parsed log is saved by default: next to it, with a .json extension.
func seriesPathFor(logPath string) string {
	return strings.TrimSuffix(logPath, filepath.Ext(logPath)) + seriesFileExt
}

func regularFiles(paths []string) []string {
	files := make([]string, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		if err == nil && info.Mode().IsRegular() {
			files = append(files, p)
		}
	}
	return files
}
