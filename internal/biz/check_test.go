package biz

import (
	"context"
	"errors"
	"testing"

	"product-catalog-go/internal/biz/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockCheckRepo 是 CheckRepo 的模拟实现
type MockCheckRepo struct {
	mock.Mock
}

func (m *MockCheckRepo) Ready(ctx context.Context, req model.HealthCheckReq) (model.HealthCheckReply, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(model.HealthCheckReply), args.Error(1)
}

// CheckUseCaseTestSuite 是 CheckUseCase 的测试套件
type CheckUseCaseTestSuite struct {
	suite.Suite
	checkRepo *MockCheckRepo
	useCase   *CheckUseCase
}

func (suite *CheckUseCaseTestSuite) SetupTest() {
	suite.checkRepo = new(MockCheckRepo)

	useCaseInterface, err := NewCheckUseCase(suite.checkRepo)
	assert.NoError(suite.T(), err)
	suite.useCase = useCaseInterface.(*CheckUseCase)
}

func (suite *CheckUseCaseTestSuite) TestReady_Success() {
	ctx := context.Background()
	expectedReply := model.HealthCheckReply{Status: "Ready"}

	suite.checkRepo.On("Ready", ctx, model.HealthCheckReq{}).Return(expectedReply, nil)

	reply, err := suite.useCase.Ready(ctx, model.HealthCheckReq{})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), expectedReply, reply)
}

func (suite *CheckUseCaseTestSuite) TestReady_Error() {
	ctx := context.Background()
	expectedError := errors.New("database error")

	suite.checkRepo.On("Ready", ctx, model.HealthCheckReq{}).Return(model.HealthCheckReply{}, expectedError)

	reply, err := suite.useCase.Ready(ctx, model.HealthCheckReq{})

	assert.Error(suite.T(), err)
	assert.Equal(suite.T(), expectedError, err)
	assert.Equal(suite.T(), model.HealthCheckReply{}, reply)
}

// 运行测试套件
func TestCheckUseCaseTestSuite(t *testing.T) {
	suite.Run(t, new(CheckUseCaseTestSuite))
}

// 单元测试函数
func TestNewCheckUseCase(t *testing.T) {
	mockRepo := new(MockCheckRepo)

	useCase, err := NewCheckUseCase(mockRepo)

	assert.NoError(t, err)
	assert.NotNil(t, useCase)
	assert.IsType(t, &CheckUseCase{}, useCase)
}
