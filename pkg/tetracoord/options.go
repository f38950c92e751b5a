package tetracoord

// Option configures construction and conversion of tetracoordinates.
// Options that do not apply to a call are ignored.
type Option func(*options)

type options struct {
	power       int
	powerSet    bool
	order       DigitOrder
	orderSet    bool
	irrational  bool
	irrSet      bool
	precision   int
	orientation Orientation
}

func buildOptions(opts []Option) options {
	o := options{
		order:       DefaultOrder,
		orientation: DefaultOrientation,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if !o.orientation.Valid() {
		o.orientation = DefaultOrientation
	}
	return o
}

// WithPower sets the power (point position). For digit strings it is added
// to the power implied by the point character.
func WithPower(power int) Option {
	return func(o *options) {
		o.power = power
		o.powerSet = true
	}
}

// WithOrder sets the digit order.
func WithOrder(order DigitOrder) Option {
	return func(o *options) {
		o.order = order
		o.orderSet = true
	}
}

// WithIrrational marks the least significant digit as infinitely repeating.
// The flag is stored but has no effect on conversions.
func WithIrrational(irrational bool) Option {
	return func(o *options) {
		o.irrational = irrational
		o.irrSet = true
	}
}

// WithPrecision sets the finest level FromCartesian resolves to.
func WithPrecision(precision int) Option {
	return func(o *options) { o.precision = precision }
}

// WithOrientation sets the orientation used for cartesian conversion. An
// orientation that is not Valid converts as DefaultOrientation.
func WithOrientation(orientation Orientation) Option {
	return func(o *options) { o.orientation = orientation }
}
