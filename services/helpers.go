package services

import (
	"github.com/kfactor072/matchmaking-system/models"
	"github.com/kfactor072/matchmaking-system/storage"
)

// resolveAvatarURL fills AvatarURL from the stored object key.
func resolveAvatarURL(uploader storage.FileUploader, player *models.Player) {
	if player == nil || player.AvatarKey == nil || uploader == nil {
		return
	}
	url := uploader.GetPublicURL(*player.AvatarKey)
	if url != "" {
		player.AvatarURL = &url
	}
}

func resolveMatchAvatarURLs(uploader storage.FileUploader, match *models.Match) {
	if match == nil {
		return
	}
	resolveAvatarURL(uploader, match.PlayerA)
	resolveAvatarURL(uploader, match.PlayerB)
	resolveAvatarURL(uploader, match.Winner)
}
