package database

import "housegig/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Listing{},
		&models.Vote{},
		&models.Comment{},
		&models.CommentLike{},
		&models.Collection{},
		&models.CollectionListing{},
		&models.Conversation{},
		&models.ConversationParticipant{},
		&models.Message{},
	}
}
