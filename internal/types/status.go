package types

// StatusAddress indexes a system variable in the status table. The order is
// part of the FRAM layout: changing it invalidates values already stored on
// the satellite.
type StatusAddress int

const (
	// Operating system and OBC
	ObcOpMode StatusAddress = iota // General operation mode
	ObcLastResetSource             // Last reset source
	ObcHoursAlive                  // Hours since first boot
	ObcHoursWithoutReset           // Hours since last reset
	ObcResetCounter                // Number of system resets
	ObcExecutionCounter            // Command execution counter

	// Real time clock
	RtcDateTime // RTC current unix time

	// Communications
	ComCountTm // Transmitted telemetry counter
	ComCountTc // Received telecommand counter
	ComLastTc  // Unix time of the last received telecommand

	// Flight plan
	FplLast  // Unix time of the last executed flight plan command
	FplQueue // Number of live flight plan entries

	// Attitude determination and control
	AdsOmegaX // Gyroscope X [rad/s]
	AdsOmegaY // Gyroscope Y [rad/s]
	AdsOmegaZ // Gyroscope Z [rad/s]
	AdsQuat0  // Attitude quaternion q0
	AdsQuat1  // Attitude quaternion q1
	AdsQuat2  // Attitude quaternion q2
	AdsQuat3  // Attitude quaternion q3

	// Power
	EpsVbatt // Battery voltage [mV]
	EpsCurIn // Input current [mA]

	// Payload sample cursors, one per payload store
	DrpTemp   // Next write index, temperature payload
	DrpAds    // Next write index, attitude payload
	DrpStatus // Next write index, status dump payload

	// StatusLastVar is the number of status variables, not an address.
	StatusLastVar
)

// VarType tags how a status variable is meant to be displayed.
type VarType byte

const (
	VarInt   VarType = 'd'
	VarUint  VarType = 'u'
	VarFloat VarType = 'f'
)

// StatusVar describes one entry of the status table.
type StatusVar struct {
	Address StatusAddress
	Name    string
	Type    VarType
	Default Value32
}

// StatusVars is the system variable definition table, indexed by address.
var StatusVars = [StatusLastVar]StatusVar{
	{ObcOpMode, "obc_op_mode", VarInt, IntValue(0)},
	{ObcLastResetSource, "obc_last_reset_source", VarInt, IntValue(-1)},
	{ObcHoursAlive, "obc_hours_alive", VarInt, IntValue(0)},
	{ObcHoursWithoutReset, "obc_hours_wo_reset", VarInt, IntValue(0)},
	{ObcResetCounter, "obc_reset_counter", VarInt, IntValue(0)},
	{ObcExecutionCounter, "obc_executed_cmds", VarInt, IntValue(0)},
	{RtcDateTime, "rtc_date_time", VarInt, IntValue(0)},
	{ComCountTm, "com_count_tm", VarUint, IntValue(0)},
	{ComCountTc, "com_count_tc", VarUint, IntValue(0)},
	{ComLastTc, "com_last_tc", VarInt, IntValue(-1)},
	{FplLast, "fpl_last", VarInt, IntValue(0)},
	{FplQueue, "fpl_queue", VarInt, IntValue(0)},
	{AdsOmegaX, "ads_omega_x", VarFloat, FloatValue(-1)},
	{AdsOmegaY, "ads_omega_y", VarFloat, FloatValue(-1)},
	{AdsOmegaZ, "ads_omega_z", VarFloat, FloatValue(-1)},
	{AdsQuat0, "ads_q0", VarFloat, FloatValue(0)},
	{AdsQuat1, "ads_q1", VarFloat, FloatValue(0)},
	{AdsQuat2, "ads_q2", VarFloat, FloatValue(0)},
	{AdsQuat3, "ads_q3", VarFloat, FloatValue(0)},
	{EpsVbatt, "eps_vbatt", VarUint, IntValue(-1)},
	{EpsCurIn, "eps_cur_in", VarUint, IntValue(-1)},
	{DrpTemp, "drp_temp", VarUint, IntValue(0)},
	{DrpAds, "drp_ads", VarUint, IntValue(0)},
	{DrpStatus, "drp_status", VarUint, IntValue(0)},
}

// FindStatusVar looks a status variable up by name. The second return is
// false when no variable has that name.
func FindStatusVar(name string) (StatusVar, bool) {
	for _, v := range StatusVars {
		if v.Name == name {
			return v, true
		}
	}
	return StatusVar{}, false
}
