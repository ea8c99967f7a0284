package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/daoforge/governance-api/internal/constants"
	"github.com/daoforge/governance-api/internal/database"
	"github.com/daoforge/governance-api/internal/models"
	"github.com/daoforge/governance-api/internal/repository"
	"github.com/daoforge/governance-api/internal/services"
)

type testEnv struct {
	db *gorm.DB

	authHandler     *AuthHandler
	orgHandler      *OrganizationHandler
	proposalHandler *ProposalHandler
	commentHandler  *CommentHandler

	orgService      *services.OrganizationService
	proposalService *services.ProposalService
	commentService  *services.CommentService
}

func setupTestEnv(t *testing.T) testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Organization{},
		&models.OrganizationMember{},
		&models.Proposal{},
		&models.ProposalVote{},
		&models.Comment{},
		&models.CommentLike{},
		&models.IDSequence{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	userRepo := repository.NewUserRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	proposalRepo := repository.NewProposalRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	seqRepo := repository.NewSequenceRepository(db)

	membership := services.NewMembershipService(orgRepo)
	authService := services.NewAuthService(userRepo)
	orgService := services.NewOrganizationService(orgRepo, userRepo, seqRepo, membership)
	proposalService := services.NewProposalService(proposalRepo, orgRepo, seqRepo, membership)
	commentService := services.NewCommentService(commentRepo, proposalRepo, seqRepo, membership)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return testEnv{
		db:              db,
		authHandler:     NewAuthHandler(authService),
		orgHandler:      NewOrganizationHandler(orgService),
		proposalHandler: NewProposalHandler(proposalService, nil),
		commentHandler:  NewCommentHandler(commentService),
		orgService:      orgService,
		proposalService: proposalService,
		commentService:  commentService,
	}
}

// testContext builds a gin context carrying the authenticated user, an
// optional JSON body, and optional :name path params.
func testContext(t *testing.T, method, url string, body interface{}, userID uint64, params ...gin.Param) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = params
	if userID != 0 {
		c.Set(constants.ContextKeyUserID, userID)
	}

	return c, w
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		PasswordHash: "hashed",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestOrganization(t *testing.T, env testEnv, ownerID uint64, name string) *models.Organization {
	t.Helper()

	org, err := env.orgService.CreateOrganization(services.CreateOrganizationInput{
		Name:    name,
		OwnerID: ownerID,
	})
	require.NoError(t, err)
	return org
}

func addTestMember(t *testing.T, env testEnv, orgID, ownerID, userID uint64) {
	t.Helper()
	require.NoError(t, env.orgService.AddMember(orgID, ownerID, userID))
}

func createTestProposal(t *testing.T, env testEnv, orgID, ownerID uint64, title string) *models.Proposal {
	t.Helper()

	proposal, err := env.proposalService.CreateProposal(services.CreateProposalInput{
		OrganizationID:  orgID,
		Title:           title,
		Details:         "details",
		AmountRequested: 100,
		OwnerID:         ownerID,
	})
	require.NoError(t, err)
	return proposal
}

// closeVoting moves the proposal's deadline into the past.
func closeVoting(t *testing.T, db *gorm.DB, proposalID uint64) {
	t.Helper()

	err := db.Model(&models.Proposal{}).
		Where("id = ?", proposalID).
		Update("deadline", time.Now().Add(-time.Hour)).Error
	require.NoError(t, err)
}

func idParam(id uint64) gin.Param {
	return gin.Param{Key: "id", Value: strconv.FormatUint(id, 10)}
}

func userIDParam(id uint64) gin.Param {
	return gin.Param{Key: "user_id", Value: strconv.FormatUint(id, 10)}
}

// responseErrorCode decodes the error envelope and returns its code.
func responseErrorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var resp struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Code
}
