// Package note places a finished transcript in the vault.
//
// Paths derive from the recording file name:
//
//	AudioPath("rec1.webm", s)  // "<save_audio_file_path>/rec1.webm"
//	NotePath("rec1.webm", s)   // "<create_new_file_after_recording_path>/rec1.md"
//
// Apply either creates a new note, embedding the saved recording with
// ![[audio/rec1.webm]] on its first line, or inserts at the active cursor.
package note
