package argspec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/merou/argspec/env"
	"github.com/merou/argspec/types"
)

func TestBasicUsage(t *testing.T) {
	s := MustNew(
		Positional("path", types.Of(types.Path)),
		Option("port", types.Of(types.Int), WithDefault("8080")),
		Flag("verbose"),
	)

	rec, err := s.Parse([]string{"/path/to/file", "--port", "8081", "--verbose"})
	require.NoError(t, err)

	assert.Equal(t, "/path/to/file", rec.String("path"))
	assert.Equal(t, int64(8081), rec.Int("port"))
	assert.True(t, rec.Bool("verbose"))
}

func TestBasicUsageWithDefaults(t *testing.T) {
	s := MustNew(
		Positional("path", types.Of(types.Path), WithDefault("/path/to/file")),
		Option("port", types.Of(types.Int), WithDefault("8080")),
		Flag("verbose"),
	)

	rec, err := s.Parse(nil)
	require.NoError(t, err)

	assert.Equal(t, "/path/to/file", rec.String("path"))
	assert.Equal(t, int64(8080), rec.Int("port"))
	assert.False(t, rec.Bool("verbose"))
}

func TestShortAliases(t *testing.T) {
	s := MustNew(
		Positional("path", types.Of(types.Path)),
		Option("port", types.Of(types.Int), WithDefault("8080"), WithShort()),
		Flag("verbose", WithShort()),
	)

	rec, err := s.Parse([]string{"/path/to/file", "-p", "8081", "-v"})
	require.NoError(t, err)

	assert.Equal(t, int64(8081), rec.Int("port"))
	assert.True(t, rec.Bool("verbose"))
}

func TestCustomAliases(t *testing.T) {
	s := MustNew(
		Option("port", types.Of(types.Int), WithDefault("8080"), WithAliases("-P")),
		Flag("verbose", WithAliases("-V")),
	)

	rec, err := s.Parse([]string{"-P", "8081", "-V"})
	require.NoError(t, err)

	assert.Equal(t, int64(8081), rec.Int("port"))
	assert.True(t, rec.Bool("verbose"))
}

func TestKebabAndSnakeNaming(t *testing.T) {
	s := MustNew(Option("some_variable", types.Of(types.Int)))

	rec, err := s.Parse([]string{"--some-variable", "3"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), rec.Int("some_variable"))

	rec, err = s.Parse([]string{"--some_variable", "4"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), rec.Int("some_variable"))
}

func TestKeyEqualsValue(t *testing.T) {
	s := MustNew(Option("path", types.Of(types.Path)))

	rec, err := s.Parse([]string{"--path=/path/to/file"})
	require.NoError(t, err)
	assert.Equal(t, "/path/to/file", rec.String("path"))
}

func TestShortKeyEqualsValue(t *testing.T) {
	s := MustNew(Option("path", types.Of(types.Path), WithShort()))

	rec, err := s.Parse([]string{"-p=/path/to/file"})
	require.NoError(t, err)
	assert.Equal(t, "/path/to/file", rec.String("path"))
}

func TestKeyEqualsValueUnknownKey(t *testing.T) {
	s := MustNew(Option("path", types.Of(types.Path), WithDefault("/path/to/file")))

	_, err := s.Parse([]string{"--number=2"})
	assert.ErrorIs(t, err, ErrUnknownArgument)
}

func TestValueContainingEqualsIsPreserved(t *testing.T) {
	s := MustNew(Option("metadata", types.Of(types.String)))

	rec, err := s.Parse([]string{"--metadata=key1=value1,key2=value2"})
	require.NoError(t, err)
	assert.Equal(t, "key1=value1,key2=value2", rec.String("metadata"),
		"only the first = splits")
}

func TestKeyEqualsEmptyValue(t *testing.T) {
	s := MustNew(Option("metadata", types.Of(types.String)))

	rec, err := s.Parse([]string{"--metadata="})
	require.NoError(t, err)
	assert.Equal(t, "", rec.String("metadata"))
}

func TestPositionalWithEqualsIsNotSplit(t *testing.T) {
	s := MustNew(Positional("metadata", types.Of(types.String)))

	rec, err := s.Parse([]string{"key1=value1,key2=value2"})
	require.NoError(t, err)
	assert.Equal(t, "key1=value1,key2=value2", rec.String("metadata"))
}

func TestFlagWithInlineValueFails(t *testing.T) {
	s := MustNew(Flag("verbose"))

	_, err := s.Parse([]string{"--verbose=false"})
	assert.ErrorIs(t, err, ErrInvalidValue, "flags never take a value, whatever it is")

	_, err = s.Parse([]string{"--verbose=true"})
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestRepeatedOptionLastWins(t *testing.T) {
	s := MustNew(Option("port", types.Of(types.Int)))

	rec, err := s.Parse([]string{"--port", "8080", "--port", "8081"})
	require.NoError(t, err)
	assert.Equal(t, int64(8081), rec.Int("port"))
}

func TestMissingOptionValue(t *testing.T) {
	s := MustNew(Option("port", types.Of(types.Int)))

	_, err := s.Parse([]string{"--port"})
	assert.ErrorIs(t, err, ErrMissingOptionValue)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "port", perr.Field)
}

func TestMissingRequiredOption(t *testing.T) {
	s := MustNew(Option("port", types.Of(types.Int)))

	_, err := s.Parse(nil)
	assert.ErrorIs(t, err, ErrMissingValue)
}

func TestUnknownArgument(t *testing.T) {
	s := MustNew(Flag("verbose"))

	_, err := s.Parse([]string{"--louder"})
	assert.ErrorIs(t, err, ErrUnknownArgument)
}

func TestCombinedShortFlagsFail(t *testing.T) {
	s := MustNew(
		Flag("all", WithShort()),
		Flag("brief", WithShort()),
	)

	_, err := s.Parse([]string{"-ab"})
	assert.ErrorIs(t, err, ErrUnknownArgument, "short flags are never clustered")
}

func TestNegativeNumberIsPositional(t *testing.T) {
	s := MustNew(Positional("offset", types.Of(types.Int)))

	rec, err := s.Parse([]string{"-5"})
	require.NoError(t, err)
	assert.Equal(t, int64(-5), rec.Int("offset"))
}

func TestMultiplePositionals(t *testing.T) {
	s := MustNew(
		Positional("path", types.Of(types.Path)),
		Positional("port", types.Of(types.Int), WithDefault("8080")),
		Flag("verbose"),
	)

	rec, err := s.Parse([]string{"/path/to/file", "8081", "--verbose"})
	require.NoError(t, err)
	assert.Equal(t, "/path/to/file", rec.String("path"))
	assert.Equal(t, int64(8081), rec.Int("port"))
	assert.True(t, rec.Bool("verbose"))
}

func TestMissingPositional(t *testing.T) {
	s := MustNew(Positional("path", types.Of(types.Path)))

	_, err := s.Parse(nil)
	assert.ErrorIs(t, err, ErrMissingPositional)
}

func TestExtraPositionals(t *testing.T) {
	s := MustNew(Positional("path", types.Of(types.Path)))

	_, err := s.Parse([]string{"/a", "/b", "/c"})
	assert.ErrorIs(t, err, ErrExtraPositional)
	assert.Contains(t, err.Error(), "/b, /c")
}

func TestVariadicPositionalFollowedByAnother(t *testing.T) {
	s := MustNew(
		Positional("paths", types.SliceOf(types.Path)),
		Positional("port", types.Of(types.Int), WithDefault("8080")),
	)

	rec, err := s.Parse([]string{"/f1", "/f2", "/f3", "8081"})
	require.NoError(t, err)
	assert.Equal(t, []string{"/f1", "/f2", "/f3"}, rec.Strings("paths"))
	assert.Equal(t, int64(8081), rec.Int("port"))
}

func TestVariadicPositionalEmptyIsAllowed(t *testing.T) {
	s := MustNew(Positional("ports", types.SliceOf(types.Int)))

	rec, err := s.Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{}, rec.Ints("ports"))
}

func TestVariadicPositionalWithDefault(t *testing.T) {
	s := MustNew(Positional("ports", types.SliceOf(types.Int), WithDefault("8080")))

	rec, err := s.Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{8080}, rec.Ints("ports"))
}

func TestVariadicPositionalEmptyFailsValidator(t *testing.T) {
	s := MustNew(Positional("ports", types.SliceOf(types.Int),
		WithValidator(func(v any) bool { return len(v.([]int64)) > 0 }),
	))

	_, err := s.Parse(nil)
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestEmptyVariadicPositionalInCentre(t *testing.T) {
	s := MustNew(
		Positional("head", types.Of(types.String)),
		Positional("middle", types.SliceOf(types.String)),
		Positional("tail", types.Of(types.String)),
	)

	rec, err := s.Parse([]string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, "a", rec.String("head"))
	assert.Equal(t, []string{}, rec.Strings("middle"),
		"fixed-arity neighbours are served before the variadic absorbs anything")
	assert.Equal(t, "b", rec.String("tail"))

	rec, err = s.Parse([]string{"a", "x", "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, rec.Strings("middle"))
}

func TestDefaultedVariadicPositionalInCentre(t *testing.T) {
	s := MustNew(
		Positional("head", types.Of(types.String)),
		Positional("middle", types.SliceOf(types.String), WithDefault("middle", "lines")),
		Positional("tail", types.Of(types.String)),
	)

	rec, err := s.Parse([]string{"head", "tail"})
	require.NoError(t, err)
	assert.Equal(t, []string{"middle", "lines"}, rec.Strings("middle"),
		"a variadic that receives no tokens falls back to its default")
	assert.Equal(t, "tail", rec.String("tail"))

	rec, err = s.Parse([]string{"head", "centre", "tail"})
	require.NoError(t, err)
	assert.Equal(t, []string{"centre"}, rec.Strings("middle"))
}

func TestFixedTuplePositional(t *testing.T) {
	s := MustNew(
		Positional("paths", types.TupleOf(2, types.Path)),
		Positional("port", types.Of(types.Int), WithDefault("8080")),
	)

	rec, err := s.Parse([]string{"/f1", "/f2", "8081"})
	require.NoError(t, err)
	assert.Equal(t, []string{"/f1", "/f2"}, rec.Strings("paths"))
	assert.Equal(t, int64(8081), rec.Int("port"))
}

func TestFixedTupleInsufficientTokens(t *testing.T) {
	s := MustNew(Positional("paths", types.TupleOf(2, types.Path)))

	_, err := s.Parse([]string{"/f1"})
	assert.ErrorIs(t, err, ErrMissingPositional)
}

func TestVariadicOption(t *testing.T) {
	s := MustNew(
		Option("tags", types.SliceOf(types.String)),
		Flag("verbose"),
	)

	rec, err := s.Parse([]string{"--tags", "tag1", "tag2", "tag3", "--verbose"})
	require.NoError(t, err)
	assert.Equal(t, []string{"tag1", "tag2", "tag3"}, rec.Strings("tags"),
		"container options consume up to the next alias")
	assert.True(t, rec.Bool("verbose"))
}

func TestVariadicOptionLeavesNoRoomForPositional(t *testing.T) {
	s := MustNew(
		Option("tags", types.SliceOf(types.String)),
		Positional("path", types.Of(types.Path)),
	)

	_, err := s.Parse([]string{"--tags", "tag1", "tag2", "tag3", "/path/to/file"})
	assert.ErrorIs(t, err, ErrMissingPositional)
}

func TestVariadicOptionObeysSeparator(t *testing.T) {
	s := MustNew(
		Option("tags", types.SliceOf(types.String)),
		Positional("path", types.Of(types.Path)),
	)

	rec, err := s.Parse([]string{"--tags", "tag1", "tag2", "tag3", "--", "/path/to/file"})
	require.NoError(t, err)
	assert.Equal(t, []string{"tag1", "tag2", "tag3"}, rec.Strings("tags"))
	assert.Equal(t, "/path/to/file", rec.String("path"))
}

func TestSeparatorForcesPositionals(t *testing.T) {
	s := MustNew(
		Flag("verbose"),
		Positional("words", types.SliceOf(types.String)),
	)

	rec, err := s.Parse([]string{"--verbose", "--", "--verbose", "-x", "--help"})
	require.NoError(t, err)
	assert.True(t, rec.Bool("verbose"))
	assert.Equal(t, []string{"--verbose", "-x", "--help"}, rec.Strings("words"),
		"everything after -- is positional, however option-like")
}

func TestChoices(t *testing.T) {
	s := MustNew(Option("mode", types.Choices("auto", "manual"), WithDefault("auto")))

	rec, err := s.Parse([]string{"--mode", "manual"})
	require.NoError(t, err)
	assert.Equal(t, "manual", rec.String("mode"))

	_, err = s.Parse([]string{"--mode", "invalid"})
	assert.ErrorIs(t, err, ErrInvalidValue)
	assert.ErrorIs(t, err, types.ErrBadChoice)
}

func TestAutomaticFlagNegator(t *testing.T) {
	s := MustNew(Flag("verbose", WithDefault("true")))

	rec, err := s.Parse([]string{"--no-verbose"})
	require.NoError(t, err)
	assert.False(t, rec.Bool("verbose"))

	rec, err = s.Parse(nil)
	require.NoError(t, err)
	assert.True(t, rec.Bool("verbose"), "the default holds when nothing toggles it")
}

func TestManualFlagNegator(t *testing.T) {
	s := MustNew(Flag("verbose", WithDefault("true"), WithNegators("--quiet")))

	rec, err := s.Parse([]string{"--quiet"})
	require.NoError(t, err)
	assert.False(t, rec.Bool("verbose"))
}

func TestPositiveAliasAlwaysSetsTrue(t *testing.T) {
	s := MustNew(Flag("verbose", WithDefault("true")))

	rec, err := s.Parse([]string{"--verbose"})
	require.NoError(t, err)
	assert.True(t, rec.Bool("verbose"), "a positive alias sets true, it does not toggle")
}

func TestFlagLastOccurrenceWins(t *testing.T) {
	s := MustNew(Flag("verbose"))

	rec, err := s.Parse([]string{"--verbose", "--no-verbose"})
	require.NoError(t, err)
	assert.False(t, rec.Bool("verbose"))
}

func TestValidators(t *testing.T) {
	s := MustNew(Option("port", types.Of(types.Int),
		WithValidator(func(v any) bool { return v.(int64) > 1024 }),
	))

	rec, err := s.Parse([]string{"--port", "8080"})
	require.NoError(t, err)
	assert.Equal(t, int64(8080), rec.Int("port"))

	_, err = s.Parse([]string{"--port", "80"})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestValidatorRunsOnDefault(t *testing.T) {
	s := MustNew(Option("port", types.Of(types.Int),
		WithDefault("80"),
		WithValidator(func(v any) bool { return v.(int64) > 1024 }),
	))

	_, err := s.Parse(nil)
	assert.ErrorIs(t, err, ErrValidationFailed, "validators see resolved defaults too")
}

func TestInvalidValueCarriesContext(t *testing.T) {
	s := MustNew(Option("port", types.Of(types.Int)))

	_, err := s.Parse([]string{"--port", "eighty"})
	assert.ErrorIs(t, err, ErrInvalidValue)
	assert.ErrorIs(t, err, types.ErrParseInt)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "port", perr.Field)
	assert.Equal(t, "eighty", perr.Token)
}

func TestFactoryDefault(t *testing.T) {
	s := MustNew(Option("value", types.Of(types.String),
		WithFactory(FactoryFunc(func() (string, bool) { return "bar", true })),
	))

	rec, err := s.Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, "bar", rec.String("value"))
}

func TestFactoryDefaultIsCoerced(t *testing.T) {
	s := MustNew(
		Positional("value", types.Of(types.Int),
			WithFactory(FactoryFunc(func() (string, bool) { return "1", true }))),
	)

	rec, err := s.Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rec.Int("value"))
}

func TestReadEnvFallback(t *testing.T) {
	t.Setenv("SERVICE_API_KEY", "environment value")

	s := MustNew(Option("api_key", types.Of(types.String),
		WithFactory(ReadEnv("SERVICE_API_KEY")),
	))

	rec, err := s.Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, "environment value", rec.String("api_key"))
}

func TestReadEnvDoesNotOverrideCommandLine(t *testing.T) {
	t.Setenv("SERVICE_API_KEY", "environment value")

	s := MustNew(Option("api_key", types.Of(types.String),
		WithFactory(ReadEnv("SERVICE_API_KEY")),
	))

	rec, err := s.Parse([]string{"--api-key", "command line value"})
	require.NoError(t, err)
	assert.Equal(t, "command line value", rec.String("api_key"))
}

func TestReadEnvUnsetWithoutFallbackFails(t *testing.T) {
	s := MustNew(Option("api_key", types.Of(types.String),
		WithFactory(ReadEnv("SERVICE_API_KEY").WithResolver(env.Map{})),
	))

	_, err := s.Parse(nil)
	assert.ErrorIs(t, err, ErrMissingValue)
}

func TestReadEnvUnsetUsesFallback(t *testing.T) {
	s := MustNew(Option("api_key", types.Of(types.String),
		WithFactory(ReadEnv("SERVICE_API_KEY", "fallback value").WithResolver(env.Map{})),
	))

	rec, err := s.Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, "fallback value", rec.String("api_key"))
}

func TestReadEnvEmptyValueCountsAsSet(t *testing.T) {
	s := MustNew(Option("api_key", types.Of(types.String),
		WithFactory(ReadEnv("SERVICE_API_KEY", "fallback value").
			WithResolver(env.Map{"SERVICE_API_KEY": ""})),
	))

	rec, err := s.Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, "", rec.String("api_key"))
}

func TestHelpRequested(t *testing.T) {
	for _, args := range [][]string{
		{"-h"},
		{"--help"},
		{"-h", "--verbose"},
		{"--help", "--verbose"},
		{"-h", "3"},
		{"--help", "3"},
	} {
		s := MustNew(Flag("verbose"))
		var buf bytes.Buffer
		s.SetOutput(&buf)
		s.SetProg("prog")

		_, err := s.Parse(args)
		assert.ErrorIs(t, err, ErrHelp, "args: %v", args)
		assert.Equal(t, s.Help()+"\n", buf.String(), "args: %v", args)
	}
}

func TestShadowedShortHelpIsAnOption(t *testing.T) {
	s := MustNew(
		Option("host", types.Of(types.String), WithShort()),
		Flag("verbose"),
	)

	rec, err := s.Parse([]string{"-h", "localhost", "--verbose"})
	require.NoError(t, err)
	assert.Equal(t, "localhost", rec.String("host"))
	assert.True(t, rec.Bool("verbose"))

	var buf bytes.Buffer
	s.SetOutput(&buf)
	_, err = s.Parse([]string{"--help"})
	assert.ErrorIs(t, err, ErrHelp, "--help still triggers help when only -h is shadowed")
}

func TestShadowedLongHelpIsAnOption(t *testing.T) {
	s := MustNew(
		Option("help", types.Of(types.Int)),
		Flag("verbose"),
	)

	rec, err := s.Parse([]string{"--help", "7", "--verbose"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), rec.Int("help"))

	var buf bytes.Buffer
	s.SetOutput(&buf)
	_, err = s.Parse([]string{"-h"})
	assert.ErrorIs(t, err, ErrHelp, "-h still triggers help when only --help is shadowed")
}

func TestBothHelpAliasesShadowed(t *testing.T) {
	s := MustNew(
		Option("host", types.Of(types.String), WithShort()),
		Option("help", types.Of(types.Int)),
		Flag("verbose"),
	)

	rec, err := s.Parse([]string{"-h", "localhost", "--help", "7", "--verbose"})
	require.NoError(t, err)
	assert.Equal(t, "localhost", rec.String("host"))
	assert.Equal(t, int64(7), rec.Int("help"))
	assert.True(t, rec.Bool("verbose"))
}

func TestRoundTrip(t *testing.T) {
	s := MustNew(
		Positional("path", types.Of(types.Path)),
		Positional("port", types.Of(types.Int), WithDefault("8080")),
		Option("mode", types.Choices("auto", "manual"), WithDefault("auto")),
		Option("level", types.Of(types.Float), WithDefault("0.5")),
		Flag("verbose"),
		Flag("cache", WithDefault("true")),
	)

	rec, err := s.Parse([]string{"/path/to/file", "9000", "--mode", "manual", "--no-cache"})
	require.NoError(t, err)

	again, err := s.Parse(rec.Args())
	require.NoError(t, err)
	assert.Equal(t, rec.values, again.values, "serialize-reparse is idempotent")
}

func TestParseString(t *testing.T) {
	s := MustNew(
		Positional("path", types.Of(types.Path)),
		Option("message", types.Of(types.String)),
	)

	rec, err := s.ParseString(`--message "hello world" /path/to/file`)
	require.NoError(t, err)
	assert.Equal(t, "hello world", rec.String("message"))
	assert.Equal(t, "/path/to/file", rec.String("path"))
}

func TestParseIsReusable(t *testing.T) {
	s := MustNew(Option("port", types.Of(types.Int), WithDefault("8080")))

	rec, err := s.Parse([]string{"--port", "9000"})
	require.NoError(t, err)
	assert.Equal(t, int64(9000), rec.Int("port"))

	rec, err = s.Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(8080), rec.Int("port"), "parser state does not leak between calls")
}
