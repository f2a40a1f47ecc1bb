package constants

const USER_AGENT = "ethwalletbot/0.1.0 (+https://github.com/Amund211/ethwalletbot)"
