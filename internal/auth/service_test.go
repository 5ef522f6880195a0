package auth

import (
	"context"
	"testing"
	"time"

	"expense-journal/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// ServiceTestSuite exercises the auth service against an in-memory database
type ServiceTestSuite struct {
	suite.Suite
	db      *storage.DB
	tokens  *TokenIssuer
	service *Service
	ctx     context.Context
}

// SetupTest runs before each test
func (suite *ServiceTestSuite) SetupTest() {
	db, err := storage.NewDB(":memory:")
	require.NoError(suite.T(), err, "failed to create test database")
	suite.db = db
	suite.tokens = NewTokenIssuer("test-secret", time.Hour)
	suite.service = NewService(db, suite.tokens)
	suite.ctx = context.Background()
}

// TearDownTest runs after each test
func (suite *ServiceTestSuite) TearDownTest() {
	if suite.db != nil {
		suite.db.Close()
	}
}

func (suite *ServiceTestSuite) TestRegisterThenLogin() {
	user, token, err := suite.service.Register(suite.ctx, "ann@example.com", "s3cret", "Ann")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "ann@example.com", user.Email)
	assert.NotEqual(suite.T(), "s3cret", user.PasswordHash)

	userID, err := suite.tokens.Verify(token)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), user.ID, userID)

	loggedIn, loginToken, err := suite.service.Login(suite.ctx, "ann@example.com", "s3cret")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), user.ID, loggedIn.ID)

	userID, err = suite.tokens.Verify(loginToken)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), user.ID, userID)
}

func (suite *ServiceTestSuite) TestRegisterMissingFields() {
	cases := [][3]string{
		{"", "pw", "Name"},
		{"a@example.com", "", "Name"},
		{"a@example.com", "pw", "  "},
	}
	for _, c := range cases {
		_, _, err := suite.service.Register(suite.ctx, c[0], c[1], c[2])
		assert.ErrorIs(suite.T(), err, ErrInvalidInput, "input %v", c)
	}
}

func (suite *ServiceTestSuite) TestRegisterDuplicateEmail() {
	_, _, err := suite.service.Register(suite.ctx, "dup@example.com", "pw", "First")
	require.NoError(suite.T(), err)

	_, _, err = suite.service.Register(suite.ctx, "dup@example.com", "other", "Second")
	assert.ErrorIs(suite.T(), err, storage.ErrEmailTaken)

	count, err := suite.db.UserCount(suite.ctx)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, count)
}

func (suite *ServiceTestSuite) TestLoginFailuresAreIndistinguishable() {
	_, _, err := suite.service.Register(suite.ctx, "bea@example.com", "right", "Bea")
	require.NoError(suite.T(), err)

	_, _, wrongPassword := suite.service.Login(suite.ctx, "bea@example.com", "wrong")
	_, _, unknownEmail := suite.service.Login(suite.ctx, "nobody@example.com", "right")

	assert.ErrorIs(suite.T(), wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(suite.T(), unknownEmail, ErrInvalidCredentials)
	assert.Equal(suite.T(), wrongPassword.Error(), unknownEmail.Error())
}

func (suite *ServiceTestSuite) TestLoginMissingFields() {
	_, _, err := suite.service.Login(suite.ctx, "", "pw")
	assert.ErrorIs(suite.T(), err, ErrInvalidInput)
}

func (suite *ServiceTestSuite) TestAuthenticate() {
	user, token, err := suite.service.Register(suite.ctx, "cid@example.com", "pw", "Cid")
	require.NoError(suite.T(), err)

	got, err := suite.service.Authenticate(suite.ctx, "Bearer "+token)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), user.ID, got.ID)
}

func (suite *ServiceTestSuite) TestAuthenticateFailures() {
	_, err := suite.service.Authenticate(suite.ctx, "")
	assert.ErrorIs(suite.T(), err, ErrNoToken)

	_, err = suite.service.Authenticate(suite.ctx, "Basic abc")
	assert.ErrorIs(suite.T(), err, ErrNoToken)

	_, err = suite.service.Authenticate(suite.ctx, "Bearer ")
	assert.ErrorIs(suite.T(), err, ErrNoToken)

	_, err = suite.service.Authenticate(suite.ctx, "Bearer garbage")
	assert.ErrorIs(suite.T(), err, ErrInvalidToken)
}

func (suite *ServiceTestSuite) TestAuthenticateDeletedUser() {
	// A token for a user ID that was never (or is no longer) stored
	token, err := suite.tokens.Issue(9999)
	require.NoError(suite.T(), err)

	_, err = suite.service.Authenticate(suite.ctx, "Bearer "+token)
	assert.ErrorIs(suite.T(), err, ErrUserGone)
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}
