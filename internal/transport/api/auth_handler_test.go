package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/fsdevblog/tradesim/internal/domain"
	"github.com/fsdevblog/tradesim/internal/logger"
	"github.com/fsdevblog/tradesim/internal/service"
	"github.com/fsdevblog/tradesim/internal/service/tokens"
	"github.com/fsdevblog/tradesim/internal/transport/api/mocks"
	"github.com/fsdevblog/tradesim/internal/transport/api/testutils"
)

type AuthHandlerTestSuite struct {
	suite.Suite
	mockUserService *mocks.MockUserServicer
	router          *gin.Engine
	jwtSecret       []byte
}

func (s *AuthHandlerTestSuite) SetupTest() {
	mockCtrl := gomock.NewController(s.T())
	defer mockCtrl.Finish()

	s.mockUserService = mocks.NewMockUserServicer(mockCtrl)
	s.jwtSecret = []byte("super secret key")

	s.router = New(RouterArgs{
		Logger:       logger.New(os.Stdout),
		UserService:  s.mockUserService,
		JWTSecretKey: s.jwtSecret,
	})
}

func TestAuthHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}

func (s *AuthHandlerTestSuite) TestRegister() {
	jwtTokenStr, jwtErr := tokens.GenerateUserJWT(1, time.Hour, s.jwtSecret)
	s.Require().NoError(jwtErr)

	password := gofakeit.Password(true, true, true, false, false, 12)

	argsOk := service.RegisterUserArgs{Username: gofakeit.Username(), Password: password}
	argsDup := service.RegisterUserArgs{Username: "duplicate", Password: password}

	createdUser := &domain.User{
		ID:       1,
		Username: argsOk.Username,
		Cash:     decimal.NewFromInt(10000),
	}

	s.mockUserService.EXPECT().Register(gomock.Any(), argsOk).Return(createdUser, jwtTokenStr, nil)
	s.mockUserService.EXPECT().Register(gomock.Any(), argsDup).Return(nil, "", domain.ErrDuplicateKey)

	var cases = []struct {
		name        string
		args        *UserRegisterParams
		jwtTokenStr *string
		wantStatus  int
	}{
		{
			name: "user created",
			args: &UserRegisterParams{
				Username:             argsOk.Username,
				Password:             argsOk.Password,
				PasswordConfirmation: argsOk.Password,
			},
			wantStatus: http.StatusOK,
		}, {
			name: "user already logged in",
			args: &UserRegisterParams{
				Username:             argsOk.Username,
				Password:             argsOk.Password,
				PasswordConfirmation: argsOk.Password,
			},
			wantStatus:  http.StatusUnauthorized,
			jwtTokenStr: &jwtTokenStr,
		}, {
			name: "duplicate username",
			args: &UserRegisterParams{
				Username:             argsDup.Username,
				Password:             argsDup.Password,
				PasswordConfirmation: argsDup.Password,
			},
			wantStatus: http.StatusBadRequest,
		}, {
			name:       "bad request",
			args:       nil,
			wantStatus: http.StatusBadRequest,
		}, {
			name: "empty username",
			args: &UserRegisterParams{
				Username:             "",
				Password:             password,
				PasswordConfirmation: password,
			},
			wantStatus: http.StatusUnprocessableEntity,
		}, {
			name: "empty password",
			args: &UserRegisterParams{
				Username: gofakeit.Username(),
			},
			wantStatus: http.StatusUnprocessableEntity,
		}, {
			name: "confirmation mismatch",
			args: &UserRegisterParams{
				Username:             gofakeit.Username(),
				Password:             password,
				PasswordConfirmation: "something else",
			},
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			var payload []byte
			if t.args != nil {
				payload, _ = json.Marshal(t.args)
			}

			args := testutils.RequestArgs{
				Router: s.router,
				Method: http.MethodPost,
				URL:    RouteGroup + RegisterRoute,
				Body:   bytes.NewReader(payload),
			}

			reqOpts := []func(*testutils.RequestOptions){
				testutils.WithHeader("Content-Type", "application/json"),
			}
			if t.jwtTokenStr != nil {
				v := fmt.Sprintf("Bearer %s", *t.jwtTokenStr)
				reqOpts = append(reqOpts, testutils.WithHeader("Authorization", v))
			}

			res, err := testutils.MakeRequest(args, reqOpts...)
			defer func() {
				closeErr := res.Body.Close()
				s.Require().NoError(closeErr)
			}()

			s.Require().NoError(err)
			s.Equal(t.wantStatus, res.StatusCode)

			if t.wantStatus == http.StatusOK {
				s.Equal("Bearer "+jwtTokenStr, res.Header.Get("Authorization"))
			}
		})
	}
}

func (s *AuthHandlerTestSuite) TestLogin() {
	jwtTokenStr, jwtErr := tokens.GenerateUserJWT(1, time.Hour, s.jwtSecret)
	s.Require().NoError(jwtErr)

	argsOk := service.LoginUserArgs{Username: "test", Password: "password"}
	argsWrongUsername := service.LoginUserArgs{Username: "wrong", Password: "<PASSWORD>"}
	argsWrongPass := service.LoginUserArgs{Username: "test", Password: "<wrong1>"}

	s.mockUserService.EXPECT().
		Login(gomock.Any(), argsOk).
		Return(&domain.User{ID: 1, Username: argsOk.Username}, "token", nil)
	s.mockUserService.EXPECT().
		Login(gomock.Any(), argsWrongUsername).
		Return(nil, "", domain.ErrRecordNotFound)
	s.mockUserService.EXPECT().
		Login(gomock.Any(), argsWrongPass).
		Return(nil, "", domain.ErrPasswordMissMatch)

	cases := []struct {
		name        string
		args        *UserLoginParams
		jwtTokenStr *string
		wantStatus  int
		wantErrMsg  string
	}{
		{
			name:       "ok",
			args:       &UserLoginParams{Username: argsOk.Username, Password: argsOk.Password},
			wantStatus: http.StatusOK,
		}, {
			name:        "already logged in",
			args:        &UserLoginParams{Username: argsOk.Username, Password: argsOk.Password},
			wantStatus:  http.StatusUnauthorized,
			jwtTokenStr: &jwtTokenStr,
			wantErrMsg:  "Already authorized",
		}, {
			name:       "bad request",
			args:       nil,
			wantStatus: http.StatusBadRequest,
		}, {
			// неверные логин и пароль дают одинаковый ответ.
			name:       "wrong username",
			args:       &UserLoginParams{Username: argsWrongUsername.Username, Password: argsWrongUsername.Password},
			wantStatus: http.StatusForbidden,
			wantErrMsg: "invalid username and/or password",
		}, {
			name:       "wrong password",
			args:       &UserLoginParams{Username: argsWrongPass.Username, Password: argsWrongPass.Password},
			wantStatus: http.StatusForbidden,
			wantErrMsg: "invalid username and/or password",
		},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			var payload []byte
			if t.args != nil {
				payload, _ = json.Marshal(t.args)
			}

			args := testutils.RequestArgs{
				Router: s.router,
				Method: http.MethodPost,
				URL:    RouteGroup + LoginRoute,
				Body:   bytes.NewReader(payload),
			}

			reqOpts := []func(*testutils.RequestOptions){
				testutils.WithHeader("Content-Type", "application/json"),
			}
			if t.jwtTokenStr != nil {
				v := fmt.Sprintf("Bearer %s", *t.jwtTokenStr)
				reqOpts = append(reqOpts, testutils.WithHeader("Authorization", v))
			}

			res, err := testutils.MakeRequest(args, reqOpts...)
			defer func() {
				closeErr := res.Body.Close()
				s.Require().NoError(closeErr)
			}()

			s.Require().NoError(err)
			s.Equal(t.wantStatus, res.StatusCode)

			if t.wantErrMsg != "" {
				// тело должно быть единственным валидным json-объектом.
				rawBody, readErr := io.ReadAll(res.Body)
				s.Require().NoError(readErr)

				var errResponse map[string]string
				s.Require().NoError(json.Unmarshal(rawBody, &errResponse))
				s.Equal(t.wantErrMsg, errResponse["error"])
			}
		})
	}
}
