package database

import (
	"testing"

	modelspkg "housegig/internal/models"

	"github.com/stretchr/testify/require"
)

func TestPersistentModels_CoversVoteLedger(t *testing.T) {
	var haveVote, haveParticipant bool
	for _, model := range PersistentModels() {
		switch model.(type) {
		case *modelspkg.Vote:
			haveVote = true
		case *modelspkg.ConversationParticipant:
			haveParticipant = true
		}
	}
	require.True(t, haveVote, "PersistentModels should include Vote")
	require.True(t, haveParticipant, "PersistentModels should include ConversationParticipant")
}
