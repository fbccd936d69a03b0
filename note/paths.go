package note

import (
	"path"
	"strings"

	"github.com/kbukum/voicenote/settings"
)

// NoteExtension is appended to the base name of generated notes.
const NoteExtension = ".md"

// BaseName returns the recording name without directory and last extension.
// A leading dot does not start an extension.
//
//	BaseName("rec1.webm")        // "rec1"
//	BaseName("day/2024.01.ogg")  // "2024.01"
func BaseName(fileName string) string {
	base := path.Base(strings.ReplaceAll(fileName, `\`, "/"))
	if base == "." || base == "/" {
		return ""
	}
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		return base[:i]
	}
	return base
}

// AudioPath is where the recording is saved: the file name under
// save_audio_file_path, or at the vault root when the folder is empty.
func AudioPath(fileName string, s settings.Settings) string {
	return joinFolder(s.SaveAudioFilePath, fileName)
}

// NotePath is where a new note for the recording is created.
func NotePath(fileName string, s settings.Settings) string {
	return joinFolder(s.CreateNewFileAfterRecordingPath, BaseName(fileName)+NoteExtension)
}

func joinFolder(folder, name string) string {
	folder = strings.TrimRight(folder, "/")
	if folder == "" {
		return name
	}
	return folder + "/" + name
}
