package tests

import (
	"net/mail"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	. "github.com/trezcool/ratiba/apps/api/echo"
	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/attendance"
	"github.com/trezcool/ratiba/core/timetable"
	"github.com/trezcool/ratiba/core/user"
	emailsvc "github.com/trezcool/ratiba/services/email"
	inmemdb "github.com/trezcool/ratiba/storage/database/inmem"
)

var (
	app    Server
	conf   *core.Config
	usrSvc user.Service
	ttSvc  *timetable.Service
	attSvc *attendance.Service

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
)

func TestMain(m *testing.M) {
	conf = testConfig()
	logger := testLogger{}

	// deterministic subject colors
	timetable.SetColorFunc(func() string { return "#FF6B6B" })

	// set up DB & repos
	db, err := inmemdb.Open()
	if err != nil {
		panic(err)
	}

	// set up services
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	usrSvc = user.NewServiceMock(conf, inmemdb.NewUserRepository(db), mailSvc, logger)
	ttSvc = timetable.NewService(inmemdb.NewTimetableRepository(db), logger)
	attSvc = attendance.NewService(inmemdb.NewAttendanceRepository(db), logger)

	// set up validators
	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	user.RegisterValidators(conf, validate, translator)

	core.ParseEmailTemplates(conf, logger)

	// set up server
	app = NewServer(&Options{
		Conf:           conf,
		Logger:         logger,
		DisableReqLogs: true,
		UserSvc:        usrSvc,
		TimetableSvc:   ttSvc,
		AttendanceSvc:  attSvc,
		Validate:       validate,
		Translator:     translator,
	})

	os.Exit(m.Run())
}

func testConfig() *core.Config {
	wd, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	return &core.Config{
		TestMode:                  true,
		Env:                       "TEST",
		WorkDir:                   filepath.Join(wd, "..", "..", "..", ".."), // repo root
		AppName:                   "Ratiba",
		SecretKey:                 "5up3r53cr3tk3y",
		FrontendBaseURL:           "http://localhost:8080",
		DefaultFromEmail:          mail.Address{Address: "noreply@localhost"},
		PasswordResetTimeoutDelta: 3 * 24 * time.Hour,
		Server: core.ServerConfig{
			JWTExpirationDelta:        7 * 24 * time.Hour,
			JWTRefreshExpirationDelta: 4 * time.Hour,
		},
	}
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
